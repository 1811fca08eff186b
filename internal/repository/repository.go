package repository

import (
	"context"
	"time"

	"fittrack/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ExerciseRepository defines access to the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, muscleGroup string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id string) error
}

// WorkoutFilter narrows workout catalog listings.
type WorkoutFilter struct {
	Category   string
	Difficulty domain.Difficulty
}

// WorkoutRepository defines access to workout templates.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id string) error
}

// ScheduleFilter narrows schedule listings. Zero values mean "no filter".
type ScheduleFilter struct {
	From      *time.Time
	To        *time.Time
	Status    domain.ScheduleStatus
	WorkoutID string
	Limit     int
}

// ScheduleRepository defines access to workout schedules.
//
// All single-record reads and writes are scoped by the owning user in the
// query predicate, so a foreign schedule is indistinguishable from an absent
// one.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.WorkoutSchedule) error
	// CreateBatch inserts all instances in one round trip.
	CreateBatch(ctx context.Context, schedules []domain.WorkoutSchedule) error
	GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSchedule, error)
	List(ctx context.Context, userID string, filter ScheduleFilter) ([]domain.WorkoutSchedule, error)
	// ListActiveBetween returns the user's SCHEDULED and IN_PROGRESS
	// schedules whose scheduled_date falls in [from, to), date ascending,
	// excluding excludeID when non-empty. This is the coarse conflict
	// pre-filter; it relies on the scheduled_date index.
	ListActiveBetween(ctx context.Context, userID string, from, to time.Time, excludeID string) ([]domain.WorkoutSchedule, error)
	Update(ctx context.Context, schedule *domain.WorkoutSchedule) error
	// MarkMissedBefore flips SCHEDULED rows older than cutoff to MISSED and
	// returns the number of rows updated.
	MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionRepository defines access to workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) error
	GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error)
	GetActive(ctx context.Context, userID string) (*domain.WorkoutSession, error)
	List(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
}

// ProgramRepository defines access to programs and enrollments.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	List(ctx context.Context, difficulty domain.Difficulty) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error

	CreateEnrollment(ctx context.Context, enrollment *domain.ProgramEnrollment) error
	GetEnrollment(ctx context.Context, userID, id string) (*domain.ProgramEnrollment, error)
	GetActiveEnrollment(ctx context.Context, userID, programID string) (*domain.ProgramEnrollment, error)
	ListEnrollments(ctx context.Context, userID string) ([]domain.ProgramEnrollment, error)
	UpdateEnrollment(ctx context.Context, enrollment *domain.ProgramEnrollment) error
}

// ProgressRepository defines access to progress entries and photo metadata.
type ProgressRepository interface {
	CreateEntry(ctx context.Context, entry *domain.ProgressEntry) error
	ListEntries(ctx context.Context, userID string, from, to *time.Time) ([]domain.ProgressEntry, error)
	DeleteEntry(ctx context.Context, userID, id string) error

	CreatePhoto(ctx context.Context, photo *domain.ProgressPhoto) error
	ListPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)
}

// MotivationRepository defines access to quotes and kudos phrases.
type MotivationRepository interface {
	CreateQuote(ctx context.Context, quote *domain.Quote) error
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	CreateKudos(ctx context.Context, phrase *domain.KudosPhrase) error
	ListKudos(ctx context.Context) ([]domain.KudosPhrase, error)
}

// Store bundles the repositories behind one handle and scopes transactions.
//
// Transact runs fn against a Store view bound to a single database
// transaction; returning an error rolls everything back. Repositories
// obtained outside Transact operate in autocommit mode.
type Store interface {
	Users() UserRepository
	Exercises() ExerciseRepository
	Workouts() WorkoutRepository
	Schedules() ScheduleRepository
	Sessions() SessionRepository
	Programs() ProgramRepository
	Progress() ProgressRepository
	Motivation() MotivationRepository

	Transact(ctx context.Context, fn func(Store) error) error
}
