package gormdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// Open opens the SQLite database at dsn and runs schema migrations.
func Open(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "fittrack.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := gormlogger.New(
		&zerologWriter{log: log},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Exercise{},
		&domain.Workout{},
		&domain.WorkoutExercise{},
		&domain.WorkoutSchedule{},
		&domain.WorkoutSession{},
		&domain.Program{},
		&domain.ProgramWorkout{},
		&domain.ProgramEnrollment{},
		&domain.ProgressEntry{},
		&domain.ProgressPhoto{},
		&domain.Quote{},
		&domain.KudosPhrase{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// zerologWriter adapts zerolog to gorm's logger.Writer interface.
type zerologWriter struct {
	log zerolog.Logger
}

func (w *zerologWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

// ensureDirForSQLite creates the parent directory for a file-backed DSN.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// Store implements repository.Store over a gorm handle.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store. The same constructor serves transaction-bound
// views inside Transact.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository           { return &userRepository{db: s.db} }
func (s *Store) Exercises() repository.ExerciseRepository   { return &exerciseRepository{db: s.db} }
func (s *Store) Workouts() repository.WorkoutRepository     { return &workoutRepository{db: s.db} }
func (s *Store) Schedules() repository.ScheduleRepository   { return &scheduleRepository{db: s.db} }
func (s *Store) Sessions() repository.SessionRepository     { return &sessionRepository{db: s.db} }
func (s *Store) Programs() repository.ProgramRepository     { return &programRepository{db: s.db} }
func (s *Store) Progress() repository.ProgressRepository    { return &progressRepository{db: s.db} }
func (s *Store) Motivation() repository.MotivationRepository { return &motivationRepository{db: s.db} }

// Transact runs fn inside a single database transaction.
func (s *Store) Transact(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps gorm driver errors onto repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}
