package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotActive   = errors.New("session is not active")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionAlreadyOpen = errors.New("an active session already exists")
)

// CompleteSessionInput carries the user-supplied wrap-up fields.
type CompleteSessionInput struct {
	CaloriesBurned int
	Notes          string
}

// CompletedSession pairs the finished session with a kudos phrase.
type CompletedSession struct {
	Session *domain.WorkoutSession `json:"session"`
	Kudos   string                 `json:"kudos,omitempty"`
}

// SessionService manages workout sessions. Completing a session that was
// started from a schedule also moves that schedule to COMPLETED.
type SessionService interface {
	StartAdHoc(ctx context.Context, userID, workoutID string) (*domain.WorkoutSession, error)
	GetActive(ctx context.Context, userID string) (*domain.WorkoutSession, error)
	List(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error)
	Complete(ctx context.Context, userID, sessionID string, in CompleteSessionInput) (*CompletedSession, error)
	Abandon(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error)
}

type sessionService struct {
	store      repository.Store
	motivation MotivationService
	log        zerolog.Logger
	now        func() time.Time
}

func NewSessionService(store repository.Store, motivation MotivationService, log zerolog.Logger) SessionService {
	return &sessionService{
		store:      store,
		motivation: motivation,
		log:        log.With().Str("service", "session").Logger(),
		now:        time.Now,
	}
}

// StartAdHoc opens a session outside any schedule. One active session per
// user at a time.
func (s *sessionService) StartAdHoc(ctx context.Context, userID, workoutID string) (*domain.WorkoutSession, error) {
	if _, err := s.store.Workouts().GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if _, err := s.store.Sessions().GetActive(ctx, userID); err == nil {
		return nil, ErrSessionAlreadyOpen
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	session := &domain.WorkoutSession{
		UserID:    userID,
		WorkoutID: workoutID,
		Status:    domain.SessionStatusActive,
		StartedAt: s.now().UTC(),
	}
	if err := s.store.Sessions().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) GetActive(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	session, err := s.store.Sessions().GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	return s.store.Sessions().List(ctx, userID, limit)
}

// Complete finishes an active session, stamps the duration, and closes the
// originating schedule when there is one. The session and schedule writes
// share a transaction.
func (s *sessionService) Complete(ctx context.Context, userID, sessionID string, in CompleteSessionInput) (*CompletedSession, error) {
	var session *domain.WorkoutSession
	err := s.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		session, err = tx.Sessions().GetByID(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status != domain.SessionStatusActive {
			return ErrSessionNotActive
		}

		completedAt := s.now().UTC()
		session.Status = domain.SessionStatusCompleted
		session.CompletedAt = &completedAt
		session.DurationSeconds = int(completedAt.Sub(session.StartedAt).Seconds())
		session.CaloriesBurned = in.CaloriesBurned
		session.Notes = in.Notes
		if err := tx.Sessions().Update(ctx, session); err != nil {
			return err
		}

		if session.ScheduleID != nil {
			schedule, err := tx.Schedules().GetByID(ctx, userID, *session.ScheduleID)
			if err != nil {
				// The schedule may have been swept or cancelled since the
				// session started; the session result stands on its own.
				if errors.Is(err, repository.ErrNotFound) {
					return nil
				}
				return err
			}
			schedule.Status = domain.ScheduleStatusCompleted
			if err := tx.Schedules().Update(ctx, schedule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CompletedSession{Session: session}
	if kudos, err := s.motivation.RandomKudos(ctx); err == nil {
		result.Kudos = kudos
	} else {
		s.log.Warn().Err(err).Msg("no kudos phrase available")
	}
	return result, nil
}

// Abandon closes an active session without credit.
func (s *sessionService) Abandon(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error) {
	session, err := s.store.Sessions().GetByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != domain.SessionStatusActive {
		return nil, ErrSessionNotActive
	}

	endedAt := s.now().UTC()
	session.Status = domain.SessionStatusAbandoned
	session.CompletedAt = &endedAt
	session.DurationSeconds = int(endedAt.Sub(session.StartedAt).Seconds())
	if err := s.store.Sessions().Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
