package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fittrack/internal/domain"
	"fittrack/internal/service"
)

// RouterOptions bundles the dependencies SetupRoutes needs.
type RouterOptions struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            zerolog.Logger

	AuthService       service.AuthService
	ScheduleService   service.ScheduleService
	WorkoutService    service.WorkoutService
	SessionService    service.SessionService
	ProgramService    service.ProgramService
	ProgressService   service.ProgressService
	MotivationService service.MotivationService
}

// SetupRoutes wires all handlers into the Gin engine.
func SetupRoutes(router *gin.Engine, opts RouterOptions) {
	authHandler := NewAuthHandler(opts.AuthService)
	scheduleHandler := NewScheduleHandler(opts.ScheduleService)
	workoutHandler := NewWorkoutHandler(opts.WorkoutService)
	sessionHandler := NewSessionHandler(opts.SessionService)
	programHandler := NewProgramHandler(opts.ProgramService)
	progressHandler := NewProgressHandler(opts.ProgressService)
	motivationHandler := NewMotivationHandler(opts.MotivationService)

	router.Use(RequestLogMiddleware(opts.Log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(opts.JWTSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me", authHandler.UpdateMe)

		// --- Schedules ---
		scheduleGroup := protected.Group("/schedules")
		{
			scheduleGroup.POST("", scheduleHandler.CreateSchedule)
			scheduleGroup.GET("", scheduleHandler.ListSchedules)
			scheduleGroup.GET("/calendar", scheduleHandler.Calendar)
			scheduleGroup.GET("/upcoming", scheduleHandler.Upcoming)
			scheduleGroup.GET("/feed.ics", scheduleHandler.Feed)
			scheduleGroup.GET("/:id", scheduleHandler.GetSchedule)
			scheduleGroup.PUT("/:id", scheduleHandler.UpdateSchedule)
			scheduleGroup.DELETE("/:id", scheduleHandler.CancelSchedule)
			scheduleGroup.POST("/:id/start", scheduleHandler.StartSchedule)
		}

		// --- Workout & exercise catalog ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.POST("", RoleMiddleware(domain.RoleAdmin), workoutHandler.CreateWorkout)
			workoutGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin), workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), workoutHandler.DeleteWorkout)
		}
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", workoutHandler.ListExercises)
			exerciseGroup.POST("", RoleMiddleware(domain.RoleAdmin), workoutHandler.CreateExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin), workoutHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), workoutHandler.DeleteExercise)
		}

		// --- Sessions ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/active", sessionHandler.GetActiveSession)
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.POST("/:id/complete", sessionHandler.CompleteSession)
			sessionGroup.POST("/:id/abandon", sessionHandler.AbandonSession)
		}

		// --- Programs ---
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/enrollments/me", programHandler.MyEnrollments)
			programGroup.POST("/enrollments/:id/advance", programHandler.Advance)
			programGroup.DELETE("/enrollments/:id", programHandler.Withdraw)
			programGroup.GET("/:id", programHandler.GetProgram)
			programGroup.POST("/:id/enroll", programHandler.Enroll)
			programGroup.POST("", RoleMiddleware(domain.RoleAdmin), programHandler.CreateProgram)
		}

		// --- Progress ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.POST("", progressHandler.CreateEntry)
			progressGroup.GET("", progressHandler.ListEntries)
			progressGroup.DELETE("/:id", progressHandler.DeleteEntry)
			progressGroup.POST("/photos/upload-url", progressHandler.RequestPhotoUploadURL)
			progressGroup.POST("/photos", progressHandler.ConfirmPhoto)
			progressGroup.GET("/photos", progressHandler.ListPhotos)
		}

		// --- Motivation ---
		motivationGroup := protected.Group("/motivation")
		{
			motivationGroup.GET("/quote", motivationHandler.QuoteOfTheDay)
			motivationGroup.POST("/quotes", RoleMiddleware(domain.RoleAdmin), motivationHandler.AddQuote)
			motivationGroup.POST("/kudos", RoleMiddleware(domain.RoleAdmin), motivationHandler.AddKudos)
		}
	}
}
