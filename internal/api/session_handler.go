package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

// SessionHandler serves workout session history and lifecycle.
type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

type StartSessionRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

type CompleteSessionRequest struct {
	CaloriesBurned int    `json:"caloriesBurned" binding:"omitempty,min=0,max=10000"`
	Notes          string `json:"notes" binding:"omitempty,max=500"`
}

// --- Handler Methods ---

// ListSessions handles GET /sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	sessions, err := h.sessionService.List(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetActiveSession handles GET /sessions/active.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	session, err := h.sessionService.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load active session")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// StartSession handles POST /sessions (ad-hoc, outside a schedule).
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	session, err := h.sessionService.StartAdHoc(c.Request.Context(), userID, req.WorkoutID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CompleteSession handles POST /sessions/:id/complete.
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	result, err := h.sessionService.Complete(c.Request.Context(), userID, c.Param("id"), service.CompleteSessionInput{
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
	})
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AbandonSession handles POST /sessions/:id/abandon.
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	session, err := h.sessionService.Abandon(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionNotActive), errors.Is(err, service.ErrSessionAlreadyOpen):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
