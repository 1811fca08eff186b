package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/service"
)

// ScheduleHandler holds the schedule service dependency.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

// CreateScheduleRequest defines the expected JSON for creating a schedule.
type CreateScheduleRequest struct {
	WorkoutID       string     `json:"workoutId" binding:"required"`
	ScheduledDate   time.Time  `json:"scheduledDate" binding:"required"`
	ScheduledTime   string     `json:"scheduledTime" binding:"omitempty,len=5"`
	DurationMinutes int        `json:"durationMinutes" binding:"omitempty,min=1,max=300"`
	Notes           string     `json:"notes" binding:"omitempty,max=500"`
	ReminderEnabled *bool      `json:"reminderEnabled"`
	ReminderMinutes int        `json:"reminderMinutes" binding:"omitempty,min=5,max=1440"`
	IsRecurring     bool       `json:"isRecurring"`
	RecurrenceRule  string     `json:"recurrenceRule" binding:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEnd   *time.Time `json:"recurrenceEnd"`
}

// UpdateScheduleRequest is a partial patch; omitted fields stay unchanged.
type UpdateScheduleRequest struct {
	ScheduledDate   *time.Time `json:"scheduledDate"`
	ScheduledTime   *string    `json:"scheduledTime" binding:"omitempty"`
	Notes           *string    `json:"notes" binding:"omitempty,max=500"`
	ReminderEnabled *bool      `json:"reminderEnabled"`
	ReminderMinutes *int       `json:"reminderMinutes" binding:"omitempty,min=5,max=1440"`
	Status          *string    `json:"status" binding:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED MISSED"`
}

// ScheduleResponse is the DTO for returning schedule details.
type ScheduleResponse struct {
	ID              string     `json:"id"`
	WorkoutID       string     `json:"workoutId"`
	WorkoutName     string     `json:"workoutName,omitempty"`
	ScheduledDate   time.Time  `json:"scheduledDate"`
	ScheduledTime   string     `json:"scheduledTime,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	ReminderEnabled bool       `json:"reminderEnabled"`
	ReminderMinutes int        `json:"reminderMinutes"`
	IsRecurring     bool       `json:"isRecurring"`
	RecurrenceRule  string     `json:"recurrenceRule,omitempty"`
	RecurrenceEnd   *time.Time `json:"recurrenceEnd,omitempty"`
	ParentID        *string    `json:"parentScheduleId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MapScheduleToResponse converts a domain schedule to its DTO.
func MapScheduleToResponse(s *domain.WorkoutSchedule) ScheduleResponse {
	if s == nil {
		return ScheduleResponse{}
	}
	resp := ScheduleResponse{
		ID:              s.ID,
		WorkoutID:       s.WorkoutID,
		ScheduledDate:   s.ScheduledDate,
		ScheduledTime:   s.ScheduledTime,
		DurationMinutes: s.DurationMinutes,
		Status:          string(s.Status),
		Notes:           s.Notes,
		ReminderEnabled: s.ReminderEnabled,
		ReminderMinutes: s.ReminderMinutes,
		IsRecurring:     s.IsRecurring,
		RecurrenceRule:  string(s.RecurrenceRule),
		RecurrenceEnd:   s.RecurrenceEnd,
		ParentID:        s.ParentScheduleID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Workout != nil {
		resp.WorkoutName = s.Workout.Name
	}
	return resp
}

func MapSchedulesToResponse(schedules []domain.WorkoutSchedule) []ScheduleResponse {
	responses := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = MapScheduleToResponse(&schedules[i])
	}
	return responses
}

// validClock reports whether s is a well-formed 24-hour HH:MM string.
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// clockMatchesDate checks that a display time agrees with the timestamp's
// UTC clock. ScheduledDate stays the source of truth either way.
func clockMatchesDate(clock string, date time.Time) bool {
	return clock == date.UTC().Format("15:04")
}

// --- Handler Methods ---

// CreateSchedule handles POST /schedules.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.ScheduledTime != "" {
		if !validClock(req.ScheduledTime) {
			abortWithError(c, http.StatusBadRequest, "scheduledTime must be HH:MM")
			return
		}
		if !clockMatchesDate(req.ScheduledTime, req.ScheduledDate) {
			abortWithError(c, http.StatusBadRequest, "scheduledTime does not match scheduledDate")
			return
		}
	}
	if req.IsRecurring && req.RecurrenceRule == "" {
		abortWithError(c, http.StatusBadRequest, "recurrenceRule is required for recurring schedules")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), userID, service.CreateScheduleInput{
		WorkoutID:       req.WorkoutID,
		ScheduledDate:   req.ScheduledDate,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		ReminderEnabled: req.ReminderEnabled,
		ReminderMinutes: req.ReminderMinutes,
		IsRecurring:     req.IsRecurring,
		RecurrenceRule:  domain.RecurrenceRule(req.RecurrenceRule),
		RecurrenceEnd:   req.RecurrenceEnd,
	})
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapScheduleToResponse(schedule))
}

// ListSchedules handles GET /schedules with from/to/status/workoutId filters.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var filter repository.ScheduleFilter
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		filter.To = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ScheduleStatus(raw)
		if !domain.ValidScheduleStatus(status) {
			abortWithError(c, http.StatusBadRequest, "unknown status")
			return
		}
		filter.Status = status
	}
	filter.WorkoutID = c.Query("workoutId")

	schedules, err := h.scheduleService.List(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list schedules")
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// Calendar handles GET /schedules/calendar?year&month.
func (h *ScheduleHandler) Calendar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 || year > 9999 {
		abortWithError(c, http.StatusBadRequest, "year is required and must be a valid year")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		abortWithError(c, http.StatusBadRequest, "month is required and must be 1-12")
		return
	}

	grid, err := h.scheduleService.Calendar(c.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build calendar")
		return
	}
	c.JSON(http.StatusOK, grid)
}

// Upcoming handles GET /schedules/upcoming.
func (h *ScheduleHandler) Upcoming(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	schedules, err := h.scheduleService.Upcoming(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list upcoming schedules")
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// Feed handles GET /schedules/feed.ics.
func (h *ScheduleHandler) Feed(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	feed, err := h.scheduleService.CalendarFeed(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build calendar feed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="workouts.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// GetSchedule handles GET /schedules/:id.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	schedule, err := h.scheduleService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// UpdateSchedule handles PUT /schedules/:id.
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.ScheduledTime != nil && *req.ScheduledTime != "" {
		if !validClock(*req.ScheduledTime) {
			abortWithError(c, http.StatusBadRequest, "scheduledTime must be HH:MM")
			return
		}
		if req.ScheduledDate != nil && !clockMatchesDate(*req.ScheduledTime, *req.ScheduledDate) {
			abortWithError(c, http.StatusBadRequest, "scheduledTime does not match scheduledDate")
			return
		}
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	in := service.UpdateScheduleInput{
		ScheduledDate:   req.ScheduledDate,
		ScheduledTime:   req.ScheduledTime,
		Notes:           req.Notes,
		ReminderEnabled: req.ReminderEnabled,
		ReminderMinutes: req.ReminderMinutes,
	}
	if req.Status != nil {
		status := domain.ScheduleStatus(*req.Status)
		in.Status = &status
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// CancelSchedule handles DELETE /schedules/:id. This is a soft cancel, not a
// row deletion.
func (h *ScheduleHandler) CancelSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	schedule, err := h.scheduleService.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// StartSchedule handles POST /schedules/:id/start.
func (h *ScheduleHandler) StartSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	schedule, session, err := h.scheduleService.Start(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schedule": MapScheduleToResponse(schedule),
		"session":  session,
	})
}

// respondScheduleError maps service errors onto HTTP statuses.
func (h *ScheduleHandler) respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrScheduleConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidScheduleState):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidRecurrence):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
