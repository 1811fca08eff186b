package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrScheduleConflict     = errors.New("schedule conflicts with an existing workout")
	ErrInvalidScheduleState = errors.New("schedule is not in a startable state")
	ErrInvalidRecurrence    = errors.New("unrecognized recurrence rule")
)

const (
	// conflictLookback widens the candidate window so the range scan on
	// scheduled_date catches schedules that started earlier but may still
	// be running. Duration is not indexed; the exact overlap check happens
	// in findConflict.
	conflictLookback = 180 * time.Minute

	// maxRecurrenceInstances caps expansion against a malformed or very
	// distant recurrence end date.
	maxRecurrenceInstances = 52

	// missedAfter is how long past its start a SCHEDULED workout may sit
	// before the sweep marks it MISSED.
	missedAfter = 2 * time.Hour

	defaultReminderMinutes = 30
	upcomingWindowDays     = 7
	upcomingLimit          = 5
)

// CreateScheduleInput carries the validated fields for a new schedule.
// DurationMinutes and ReminderMinutes fall back to defaults when zero.
type CreateScheduleInput struct {
	WorkoutID       string
	ScheduledDate   time.Time
	ScheduledTime   string
	DurationMinutes int
	Notes           string
	ReminderEnabled *bool
	ReminderMinutes int
	IsRecurring     bool
	RecurrenceRule  domain.RecurrenceRule
	RecurrenceEnd   *time.Time
}

// UpdateScheduleInput is a partial patch; nil fields are left untouched.
// Duration, recurrence settings and the target workout are immutable.
type UpdateScheduleInput struct {
	ScheduledDate   *time.Time
	ScheduledTime   *string
	Notes           *string
	ReminderEnabled *bool
	ReminderMinutes *int
	Status          *domain.ScheduleStatus
}

// CalendarItem is one schedule cell in the month-grid view.
type CalendarItem struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Time       string                `json:"time,omitempty"`
	Status     domain.ScheduleStatus `json:"status"`
	Difficulty domain.Difficulty     `json:"difficulty,omitempty"`
}

// ScheduleService owns the workout scheduling lifecycle: conflict-checked
// creation, recurrence expansion, reschedule, cancellation, session start,
// calendar views and the missed-workout sweep.
type ScheduleService interface {
	Create(ctx context.Context, userID string, in CreateScheduleInput) (*domain.WorkoutSchedule, error)
	Get(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error)
	List(ctx context.Context, userID string, filter repository.ScheduleFilter) ([]domain.WorkoutSchedule, error)
	Update(ctx context.Context, userID, scheduleID string, in UpdateScheduleInput) (*domain.WorkoutSchedule, error)
	Cancel(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error)
	Start(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, *domain.WorkoutSession, error)
	Calendar(ctx context.Context, userID string, year int, month time.Month) (map[string][]CalendarItem, error)
	Upcoming(ctx context.Context, userID string) ([]domain.WorkoutSchedule, error)
	CalendarFeed(ctx context.Context, userID string) (string, error)
	SweepMissed(ctx context.Context) (int64, error)
}

type scheduleService struct {
	store repository.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewScheduleService creates the scheduling service. The store is required
// because create/update/start each bundle a read and a write into one
// transaction.
func NewScheduleService(store repository.Store, log zerolog.Logger) ScheduleService {
	return &scheduleService{
		store: store,
		log:   log.With().Str("service", "schedule").Logger(),
		now:   time.Now,
	}
}

// Create validates the workout reference, checks for conflicts and persists
// the schedule. For recurring schedules the generated instances are inserted
// in the same transaction, so a failed expansion leaves nothing behind.
func (s *scheduleService) Create(ctx context.Context, userID string, in CreateScheduleInput) (*domain.WorkoutSchedule, error) {
	if in.IsRecurring && !in.RecurrenceRule.Valid() {
		return nil, ErrInvalidRecurrence
	}

	workout, err := s.store.Workouts().GetByID(ctx, in.WorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = workout.EstimatedMinutes
	}
	reminderEnabled := true
	if in.ReminderEnabled != nil {
		reminderEnabled = *in.ReminderEnabled
	}
	reminderMinutes := in.ReminderMinutes
	if reminderMinutes <= 0 {
		reminderMinutes = defaultReminderMinutes
	}

	schedule := &domain.WorkoutSchedule{
		UserID:          userID,
		WorkoutID:       workout.ID,
		ScheduledDate:   in.ScheduledDate.UTC(),
		ScheduledTime:   in.ScheduledTime,
		DurationMinutes: duration,
		Status:          domain.ScheduleStatusScheduled,
		Notes:           in.Notes,
		ReminderEnabled: reminderEnabled,
		ReminderMinutes: reminderMinutes,
		IsRecurring:     in.IsRecurring,
		RecurrenceRule:  in.RecurrenceRule,
		RecurrenceEnd:   in.RecurrenceEnd,
	}

	err = s.store.Transact(ctx, func(tx repository.Store) error {
		conflict, err := s.findConflict(ctx, tx, userID, schedule.ScheduledDate, duration, "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return ErrScheduleConflict
		}
		if err := tx.Schedules().Create(ctx, schedule); err != nil {
			return err
		}
		if schedule.IsRecurring && schedule.RecurrenceEnd != nil {
			instances := ExpandRecurring(schedule)
			if err := tx.Schedules().CreateBatch(ctx, instances); err != nil {
				return err
			}
			s.log.Info().
				Str("schedule", schedule.ID).
				Int("instances", len(instances)).
				Msg("expanded recurring schedule")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	schedule.Workout = workout
	return schedule, nil
}

func (s *scheduleService) Get(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error) {
	schedule, err := s.store.Schedules().GetByID(ctx, userID, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) List(ctx context.Context, userID string, filter repository.ScheduleFilter) ([]domain.WorkoutSchedule, error) {
	return s.store.Schedules().List(ctx, userID, filter)
}

// Update applies a partial patch. A date change re-runs the conflict check
// against the new window, excluding the schedule's own row.
func (s *scheduleService) Update(ctx context.Context, userID, scheduleID string, in UpdateScheduleInput) (*domain.WorkoutSchedule, error) {
	var updated *domain.WorkoutSchedule
	err := s.store.Transact(ctx, func(tx repository.Store) error {
		schedule, err := tx.Schedules().GetByID(ctx, userID, scheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}

		if in.ScheduledDate != nil {
			newDate := in.ScheduledDate.UTC()
			if !newDate.Equal(schedule.ScheduledDate) {
				conflict, err := s.findConflict(ctx, tx, userID, newDate, schedule.DurationMinutes, schedule.ID)
				if err != nil {
					return err
				}
				if conflict != nil {
					return ErrScheduleConflict
				}
			}
			schedule.ScheduledDate = newDate
		}
		if in.ScheduledTime != nil {
			schedule.ScheduledTime = *in.ScheduledTime
		}
		if in.Notes != nil {
			schedule.Notes = *in.Notes
		}
		if in.ReminderEnabled != nil {
			schedule.ReminderEnabled = *in.ReminderEnabled
		}
		if in.ReminderMinutes != nil {
			schedule.ReminderMinutes = *in.ReminderMinutes
		}
		if in.Status != nil {
			schedule.Status = *in.Status
		}

		if err := tx.Schedules().Update(ctx, schedule); err != nil {
			return err
		}
		updated = schedule
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel soft-cancels the schedule. Re-cancelling an already cancelled
// schedule re-applies the same status and is not an error.
func (s *scheduleService) Cancel(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error) {
	schedule, err := s.store.Schedules().GetByID(ctx, userID, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	schedule.Status = domain.ScheduleStatusCancelled
	if err := s.store.Schedules().Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Start moves a SCHEDULED schedule to IN_PROGRESS and opens a workout
// session for it. Session insert and status flip share one transaction.
func (s *scheduleService) Start(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, *domain.WorkoutSession, error) {
	var (
		schedule *domain.WorkoutSchedule
		session  *domain.WorkoutSession
	)
	err := s.store.Transact(ctx, func(tx repository.Store) error {
		var err error
		schedule, err = tx.Schedules().GetByID(ctx, userID, scheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		if schedule.Status != domain.ScheduleStatusScheduled {
			return ErrInvalidScheduleState
		}

		session = &domain.WorkoutSession{
			UserID:     userID,
			WorkoutID:  schedule.WorkoutID,
			ScheduleID: &schedule.ID,
			Status:     domain.SessionStatusActive,
			StartedAt:  s.now().UTC(),
		}
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return err
		}

		schedule.Status = domain.ScheduleStatusInProgress
		return tx.Schedules().Update(ctx, schedule)
	})
	if err != nil {
		return nil, nil, err
	}
	return schedule, session, nil
}

// Calendar groups the month's schedules by UTC calendar date.
func (s *scheduleService) Calendar(ctx context.Context, userID string, year int, month time.Month) (map[string][]CalendarItem, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, 0).Add(-time.Second)

	schedules, err := s.store.Schedules().List(ctx, userID, repository.ScheduleFilter{
		From: &first,
		To:   &last,
	})
	if err != nil {
		return nil, err
	}

	grid := make(map[string][]CalendarItem)
	for i := range schedules {
		sched := &schedules[i]
		item := CalendarItem{
			ID:     sched.ID,
			Time:   sched.ScheduledTime,
			Status: sched.Status,
		}
		if sched.Workout != nil {
			item.Title = sched.Workout.Name
			item.Difficulty = sched.Workout.Difficulty
		}
		day := sched.ScheduledDate.UTC().Format("2006-01-02")
		grid[day] = append(grid[day], item)
	}
	return grid, nil
}

// Upcoming returns the next week's SCHEDULED workouts, capped at five.
func (s *scheduleService) Upcoming(ctx context.Context, userID string) ([]domain.WorkoutSchedule, error) {
	from := s.now().UTC()
	to := from.AddDate(0, 0, upcomingWindowDays)
	return s.store.Schedules().List(ctx, userID, repository.ScheduleFilter{
		From:   &from,
		To:     &to,
		Status: domain.ScheduleStatusScheduled,
		Limit:  upcomingLimit,
	})
}

// SweepMissed flips stale SCHEDULED rows to MISSED in one bulk update. The
// conditional update is idempotent and safe to run concurrently with user
// operations.
func (s *scheduleService) SweepMissed(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-missedAfter)
	count, err := s.store.Schedules().MarkMissedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Msg("marked stale schedules as missed")
	}
	return count, nil
}

// findConflict returns the first active schedule whose window truly overlaps
// [start, start+duration). The repository pre-filters on scheduled_date with
// a widened window; the exact interval check happens here because stored
// durations are unbounded by index.
func (s *scheduleService) findConflict(ctx context.Context, store repository.Store, userID string, start time.Time, durationMinutes int, excludeID string) (*domain.WorkoutSchedule, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	candidates, err := store.Schedules().ListActiveBetween(ctx, userID, start.Add(-conflictLookback), end, excludeID)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Overlaps(start, end) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// ExpandRecurring materializes the concrete instances of a recurring
// schedule. The parent's own date is the first occurrence and is not
// duplicated. Instances are independent schedules: cancelling or completing
// one never touches its siblings. An unrecognized rule expands to nothing.
func ExpandRecurring(parent *domain.WorkoutSchedule) []domain.WorkoutSchedule {
	if parent.RecurrenceEnd == nil {
		return nil
	}
	end := *parent.RecurrenceEnd

	var instances []domain.WorkoutSchedule
	current := parent.ScheduledDate
	for len(instances) < maxRecurrenceInstances {
		next, ok := parent.RecurrenceRule.Step(current)
		if !ok || next.After(end) {
			break
		}
		parentID := parent.ID
		instances = append(instances, domain.WorkoutSchedule{
			UserID:           parent.UserID,
			WorkoutID:        parent.WorkoutID,
			ScheduledDate:    next,
			ScheduledTime:    parent.ScheduledTime,
			DurationMinutes:  parent.DurationMinutes,
			Status:           domain.ScheduleStatusScheduled,
			ReminderEnabled:  parent.ReminderEnabled,
			ReminderMinutes:  parent.ReminderMinutes,
			IsRecurring:      false,
			ParentScheduleID: &parentID,
		})
		current = next
	}
	return instances
}
