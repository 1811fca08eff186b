package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/service"
)

// WorkoutHandler serves the workout and exercise catalog.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type WorkoutExerciseRequest struct {
	ExerciseID  string `json:"exerciseId" binding:"required"`
	Sets        int    `json:"sets" binding:"omitempty,min=1,max=20"`
	Reps        int    `json:"reps" binding:"omitempty,min=1,max=100"`
	RestSeconds int    `json:"restSeconds" binding:"omitempty,min=0,max=600"`
}

type CreateWorkoutRequest struct {
	Name             string                   `json:"name" binding:"required,max=100"`
	Description      string                   `json:"description" binding:"omitempty,max=1000"`
	Category         string                   `json:"category" binding:"omitempty,max=50"`
	Difficulty       string                   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	EstimatedMinutes int                      `json:"estimatedMinutes" binding:"omitempty,min=1,max=300"`
	Exercises        []WorkoutExerciseRequest `json:"exercises" binding:"omitempty,dive"`
}

type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	MuscleGroup string `json:"muscleGroup" binding:"omitempty,max=50"`
	Equipment   string `json:"equipment" binding:"omitempty,max=100"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
}

func (r CreateWorkoutRequest) toInput() service.CreateWorkoutInput {
	in := service.CreateWorkoutInput{
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		Difficulty:       domain.Difficulty(r.Difficulty),
		EstimatedMinutes: r.EstimatedMinutes,
	}
	for _, ex := range r.Exercises {
		in.Exercises = append(in.Exercises, service.WorkoutExerciseInput{
			ExerciseID:  ex.ExerciseID,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
		})
	}
	return in
}

// --- Handler Methods ---

// ListWorkouts handles GET /workouts.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	filter := repository.WorkoutFilter{
		Category:   c.Query("category"),
		Difficulty: domain.Difficulty(c.Query("difficulty")),
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout handles GET /workouts/:id.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// CreateWorkout handles POST /workouts (admin).
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// UpdateWorkout handles PUT /workouts/:id (admin).
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout handles DELETE /workouts/:id (admin).
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExercises handles GET /exercises.
func (h *WorkoutHandler) ListExercises(c *gin.Context) {
	exercises, err := h.workoutService.ListExercises(c.Request.Context(), c.Query("muscleGroup"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// CreateExercise handles POST /exercises (admin).
func (h *WorkoutHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.workoutService.CreateExercise(c.Request.Context(), &domain.Exercise{
		Name:        req.Name,
		Description: req.Description,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Difficulty:  domain.Difficulty(req.Difficulty),
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// UpdateExercise handles PUT /exercises/:id (admin).
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.workoutService.UpdateExercise(c.Request.Context(), &domain.Exercise{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Difficulty:  domain.Difficulty(req.Difficulty),
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise handles DELETE /exercises/:id (admin).
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	if err := h.workoutService.DeleteExercise(c.Request.Context(), c.Param("id")); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
