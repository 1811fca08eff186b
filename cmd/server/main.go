package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"fittrack/internal/api"
	"fittrack/internal/config"
	"fittrack/internal/repository/gormdb"
	"fittrack/internal/service"
	"fittrack/internal/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		log = log.Level(level)
	}
	log.Info().Str("address", cfg.Server.Address).Msg("starting fittrack server")

	// --- Database ---
	db, err := gormdb.Open(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open database")
	}
	store := gormdb.NewStore(db)
	log.Info().Str("dsn", cfg.Database.DSN).Msg("database ready")

	// --- Photo storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize photo storage")
	}

	// --- Services ---
	authService := service.NewAuthService(store.Users(), cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(store.Workouts(), store.Exercises())
	scheduleService := service.NewScheduleService(store, log)
	motivationService := service.NewMotivationService(store.Motivation())
	sessionService := service.NewSessionService(store, motivationService, log)
	programService := service.NewProgramService(store.Programs(), store.Workouts())
	progressService := service.NewProgressService(store.Progress(), fileStorage)

	// --- Missed-workout sweep ---
	sweeper := cron.New()
	_, err = sweeper.AddFunc("@every "+cfg.Sweep.Interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := scheduleService.SweepMissed(ctx); err != nil {
			log.Error().Err(err).Msg("missed-workout sweep failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not register sweep job")
	}
	sweeper.Start()
	log.Info().Dur("interval", cfg.Sweep.Interval).Msg("missed-workout sweep scheduled")

	// --- HTTP server ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouterOptions{
		JWTSecret:         cfg.JWT.Secret,
		RateLimitRPS:      cfg.RateLimit.RPS,
		RateLimitBurst:    cfg.RateLimit.Burst,
		Log:               log,
		AuthService:       authService,
		ScheduleService:   scheduleService,
		WorkoutService:    workoutService,
		SessionService:    sessionService,
		ProgramService:    programService,
		ProgressService:   progressService,
		MotivationService: motivationService,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve failed")
		}
	}()
	log.Info().Msg("server listening")

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	// Stop the sweep first so no job races the closing server.
	<-sweeper.Stop().Done()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server exiting")
}
