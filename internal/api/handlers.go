package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/calendar"
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/schedule"
	"github.com/pventura/congregation-admin/pkg/core/services"
	"github.com/pventura/congregation-admin/pkg/store"
)

// Handler wires the HTTP surface to the service layer.
type Handler struct {
	store    store.Store
	resolver *calendar.Resolver
	logger   *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(st store.Store, resolver *calendar.Resolver, logger *zap.Logger) *Handler {
	return &Handler{store: st, resolver: resolver, logger: logger}
}

// parseMonthKey splits a "YYYY-MM" path segment.
func parseMonthKey(key string) (time.Month, int, error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed month key %q, want YYYY-MM", key)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("malformed year in month key %q", key)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month in month key %q", key)
	}
	return time.Month(month), year, nil
}

// ── members ──

type memberRequest struct {
	Name        string                        `json:"name" binding:"required"`
	Gender      string                        `json:"gender" binding:"required"`
	Eligibility map[catalog.BaseFunction]bool `json:"eligibility"`
	Relatives   []string                      `json:"relatives"`
}

func (r memberRequest) input() services.MemberInput {
	return services.MemberInput{
		Name:        r.Name,
		Gender:      r.Gender,
		Eligibility: r.Eligibility,
		Relatives:   r.Relatives,
	}
}

func (h *Handler) listMembers(c *gin.Context) {
	members, err := services.ListMembers(c.Request.Context(), h.store)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, members)
}

func (h *Handler) addMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	member, err := services.AddMember(c.Request.Context(), h.store, h.logger, req.input())
	if err != nil {
		badRequest(c, err)
		return
	}
	created(c, member)
}

func (h *Handler) updateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	member, err := services.UpdateMember(c.Request.Context(), h.store, h.logger, c.Param("id"), req.input())
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			notFound(c, err.Error())
			return
		}
		badRequest(c, err)
		return
	}
	ok(c, member)
}

func (h *Handler) deleteMember(c *gin.Context) {
	if err := services.DeleteMember(c.Request.Context(), h.store, h.logger, c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "not found") {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) resetMemberHistory(c *gin.Context) {
	if err := services.ResetMemberHistory(c.Request.Context(), h.store, h.logger, c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "not found") {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, gin.H{"reset": c.Param("id")})
}

// ── schedules ──

type generateRequest struct {
	Groups []catalog.TableGroup `json:"groups"`
}

func (h *Handler) listSchedules(c *gin.Context) {
	summaries, err := services.ListMonths(c.Request.Context(), h.store)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, summaries)
}

func (h *Handler) getSchedule(c *gin.Context) {
	sched, err := h.store.GetSchedule(c.Request.Context(), c.Param("key"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "no schedule for "+c.Param("key"))
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, sched)
}

func (h *Handler) generateSchedule(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		badRequest(c, err)
		return
	}

	result, err := services.GenerateSchedule(
		c.Request.Context(), h.store, h.resolver, h.logger, month, year, req.Groups,
	)
	if err != nil {
		if errors.Is(err, schedule.ErrFinalized) {
			conflict(c, err)
			return
		}
		badRequest(c, err)
		return
	}
	ok(c, gin.H{"schedule": result.Schedule, "gaps": result.Gaps})
}

func (h *Handler) finalizeSchedule(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	sched, err := services.FinalizeSchedule(
		c.Request.Context(), h.store, h.resolver, h.logger, month, year,
	)
	if err != nil {
		var incomplete *schedule.IncompleteError
		if errors.As(err, &incomplete) {
			c.JSON(409, envelope{Error: err.Error(), Data: gin.H{"missing": incomplete.Missing}})
			return
		}
		if strings.Contains(err.Error(), "no schedule exists") {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, sched)
}

func (h *Handler) clearMonth(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := services.ClearMonth(c.Request.Context(), h.store, h.logger, month, year); err != nil {
		if errors.Is(err, services.ErrNothingToClear) {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, gin.H{"cleared": c.Param("key")})
}

// ── assignments and cleaning ──

type substituteRequest struct {
	Date     string `json:"date" binding:"required"`
	Function string `json:"function" binding:"required"`
	MemberID string `json:"memberId"`
}

func (h *Handler) substituteAssignment(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	fn, err := catalog.ParseFunctionKey(req.Function)
	if err != nil {
		badRequest(c, err)
		return
	}

	sched, err := services.SubstituteAssignment(
		c.Request.Context(), h.store, h.logger, date, fn, req.MemberID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no schedule exists") || strings.Contains(err.Error(), "not found") {
			notFound(c, err.Error())
			return
		}
		badRequest(c, err)
		return
	}
	ok(c, sched)
}

type postMeetingCleaningRequest struct {
	Date    string `json:"date" binding:"required"`
	GroupID string `json:"groupId"`
}

func (h *Handler) setPostMeetingCleaning(c *gin.Context) {
	var req postMeetingCleaningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	sched, err := services.SetPostMeetingCleaning(
		c.Request.Context(), h.store, h.logger, date, req.GroupID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no schedule exists") {
			notFound(c, err.Error())
			return
		}
		badRequest(c, err)
		return
	}
	ok(c, sched)
}

type weeklyCleaningRequest struct {
	Date        string `json:"date" binding:"required"`
	Responsible string `json:"responsible"`
}

func (h *Handler) setWeeklyCleaning(c *gin.Context) {
	var req weeklyCleaningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	sched, err := services.SetWeeklyCleaning(
		c.Request.Context(), h.store, h.logger, date, req.Responsible,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no schedule exists") {
			notFound(c, err.Error())
			return
		}
		badRequest(c, err)
		return
	}
	ok(c, sched)
}

// ── ancillary assignment sets ──

func (h *Handler) getPublicMeetings(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.GetPublicMeetings(c.Request.Context(), h.store, month, year)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

type publicMeetingRequest struct {
	Date       string                        `json:"date" binding:"required"`
	Assignment model.PublicMeetingAssignment `json:"assignment"`
}

func (h *Handler) setPublicMeeting(c *gin.Context) {
	var req publicMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.SetPublicMeeting(c.Request.Context(), h.store, h.logger, date, req.Assignment)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

func (h *Handler) getMidweekPrograms(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.GetMidweekPrograms(c.Request.Context(), h.store, month, year)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

type midweekProgramRequest struct {
	Date    string               `json:"date" binding:"required"`
	Program model.MidweekProgram `json:"program"`
}

func (h *Handler) setMidweekProgram(c *gin.Context) {
	var req midweekProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.SetMidweekProgram(c.Request.Context(), h.store, h.logger, date, req.Program)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

func (h *Handler) getFieldService(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.GetFieldService(c.Request.Context(), h.store, month, year)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

type fieldServiceWeekRequest struct {
	Date string                 `json:"date" binding:"required"`
	Week model.FieldServiceWeek `json:"week"`
}

func (h *Handler) setFieldServiceWeek(c *gin.Context) {
	var req fieldServiceWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := calendar.ParseCivilDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.SetFieldServiceWeek(c.Request.Context(), h.store, h.logger, date, req.Week)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, data)
}

func (h *Handler) getWeeklyTemplate(c *gin.Context) {
	tpl, err := h.store.GetWeeklyTemplate(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "no weekly template saved")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, tpl)
}

func (h *Handler) saveWeeklyTemplate(c *gin.Context) {
	var tpl model.WeeklyTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		badRequest(c, err)
		return
	}
	if err := services.SaveWeeklyTemplate(c.Request.Context(), h.store, h.logger, tpl); err != nil {
		internalError(c, err)
		return
	}
	ok(c, tpl)
}

func (h *Handler) applyWeeklyTemplate(c *gin.Context) {
	month, year, err := parseMonthKey(c.Param("key"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := services.ApplyWeeklyTemplate(
		c.Request.Context(), h.store, h.resolver, h.logger, month, year,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no weekly template") {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, data)
}

// ── managed lists ──

func listCollection(name string) (string, error) {
	switch name {
	case "modalities":
		return store.CollectionModalities, nil
	case "locations":
		return store.CollectionLocations, nil
	default:
		return "", fmt.Errorf("unknown managed list %q", name)
	}
}

func (h *Handler) getManagedList(c *gin.Context) {
	collection, err := listCollection(c.Param("list"))
	if err != nil {
		notFound(c, err.Error())
		return
	}
	items, err := services.GetManagedList(c.Request.Context(), h.store, collection)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, items)
}

type listItemRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) addManagedListItem(c *gin.Context) {
	collection, err := listCollection(c.Param("list"))
	if err != nil {
		notFound(c, err.Error())
		return
	}
	var req listItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := services.AddManagedListItem(c.Request.Context(), h.store, h.logger, collection, req.Name)
	if err != nil {
		badRequest(c, err)
		return
	}
	created(c, item)
}

func (h *Handler) removeManagedListItem(c *gin.Context) {
	collection, err := listCollection(c.Param("list"))
	if err != nil {
		notFound(c, err.Error())
		return
	}
	if err := services.RemoveManagedListItem(c.Request.Context(), h.store, h.logger, collection, c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "not found") {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	ok(c, gin.H{"removed": c.Param("id")})
}

// ── data lifecycle ──

func (h *Handler) clearAllData(c *gin.Context) {
	if err := services.ClearAllData(c.Request.Context(), h.store, h.logger); err != nil {
		internalError(c, err)
		return
	}
	ok(c, gin.H{"cleared": true})
}
