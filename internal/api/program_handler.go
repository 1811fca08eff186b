package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/domain"
	"fittrack/internal/service"
)

// ProgramHandler serves the program catalog and enrollments.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

type ProgramWorkoutRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
	Week      int    `json:"week" binding:"required,min=1"`
	Day       int    `json:"day" binding:"required,min=1,max=7"`
}

type CreateProgramRequest struct {
	Name        string                  `json:"name" binding:"required,max=100"`
	Description string                  `json:"description" binding:"omitempty,max=2000"`
	Difficulty  string                  `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Weeks       int                     `json:"weeks" binding:"required,min=1,max=52"`
	Workouts    []ProgramWorkoutRequest `json:"workouts" binding:"omitempty,dive"`
}

// --- Handler Methods ---

// ListPrograms handles GET /programs.
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.List(c.Request.Context(), domain.Difficulty(c.Query("difficulty")))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram handles GET /programs/:id.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// CreateProgram handles POST /programs (admin).
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	in := service.CreateProgramInput{
		Name:        req.Name,
		Description: req.Description,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Weeks:       req.Weeks,
	}
	for _, w := range req.Workouts {
		in.Workouts = append(in.Workouts, service.ProgramWorkoutInput{
			WorkoutID: w.WorkoutID,
			Week:      w.Week,
			Day:       w.Day,
		})
	}

	program, err := h.programService.Create(c.Request.Context(), in)
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// Enroll handles POST /programs/:id/enroll.
func (h *ProgramHandler) Enroll(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	enrollment, err := h.programService.Enroll(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// MyEnrollments handles GET /programs/enrollments/me.
func (h *ProgramHandler) MyEnrollments(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	enrollments, err := h.programService.MyEnrollments(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list enrollments")
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

// Advance handles POST /programs/enrollments/:id/advance.
func (h *ProgramHandler) Advance(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	enrollment, err := h.programService.Advance(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// Withdraw handles DELETE /programs/enrollments/:id.
func (h *ProgramHandler) Withdraw(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	enrollment, err := h.programService.Withdraw(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondProgramError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *ProgramHandler) respondProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrEnrollmentNotFound),
		errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled), errors.Is(err, service.ErrEnrollmentClosed):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
