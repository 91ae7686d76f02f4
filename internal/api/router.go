// Package api exposes the scheduling services over HTTP for the web
// front end.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		members := v1.Group("/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.PUT("/:id", h.updateMember)
			members.DELETE("/:id", h.deleteMember)
			members.POST("/:id/reset-history", h.resetMemberHistory)
		}

		schedules := v1.Group("/schedules")
		{
			schedules.GET("", h.listSchedules)
			schedules.GET("/:key", h.getSchedule)
			schedules.POST("/:key/generate", h.generateSchedule)
			schedules.POST("/:key/finalize", h.finalizeSchedule)
			schedules.DELETE("/:key", h.clearMonth)
		}

		v1.POST("/assignments/substitute", h.substituteAssignment)
		v1.PUT("/cleaning/post-meeting", h.setPostMeetingCleaning)
		v1.PUT("/cleaning/weekly", h.setWeeklyCleaning)

		v1.GET("/public-meetings/:key", h.getPublicMeetings)
		v1.PUT("/public-meetings", h.setPublicMeeting)

		v1.GET("/midweek-programs/:key", h.getMidweekPrograms)
		v1.PUT("/midweek-programs", h.setMidweekProgram)

		fieldService := v1.Group("/field-service")
		{
			fieldService.GET("/:key", h.getFieldService)
			fieldService.PUT("/week", h.setFieldServiceWeek)
			fieldService.POST("/:key/apply-template", h.applyWeeklyTemplate)
		}
		v1.GET("/field-service-template", h.getWeeklyTemplate)
		v1.PUT("/field-service-template", h.saveWeeklyTemplate)

		lists := v1.Group("/lists/:list")
		{
			lists.GET("", h.getManagedList)
			lists.POST("", h.addManagedListItem)
			lists.DELETE("/:id", h.removeManagedListItem)
		}

		v1.DELETE("/data", h.clearAllData)
	}

	return r
}
