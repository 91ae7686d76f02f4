package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform JSON response body.
type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, envelope{Error: err.Error()})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope{Error: message})
}

func conflict(c *gin.Context, err error) {
	c.JSON(http.StatusConflict, envelope{Error: err.Error()})
}

func internalError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusInternalServerError, envelope{Error: "internal error"})
}
