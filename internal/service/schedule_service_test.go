package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/repository/gormdb"
)

const testUserID = "user-1"

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gormdb.Open(dsn, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gormdb.NewStore(db)
}

func newTestScheduleService(t *testing.T, now time.Time) (*scheduleService, repository.Store) {
	t.Helper()
	store := newTestStore(t)
	svc := &scheduleService{
		store: store,
		log:   zerolog.Nop(),
		now:   func() time.Time { return now },
	}
	return svc, store
}

func seedWorkout(t *testing.T, store repository.Store, name string) *domain.Workout {
	t.Helper()
	workout := &domain.Workout{
		Name:             name,
		Difficulty:       domain.DifficultyIntermediate,
		EstimatedMinutes: 60,
	}
	if err := store.Workouts().Create(context.Background(), workout); err != nil {
		t.Fatalf("seed workout: %v", err)
	}
	return workout
}

func seedSchedule(t *testing.T, store repository.Store, workoutID string, date time.Time, status domain.ScheduleStatus) *domain.WorkoutSchedule {
	t.Helper()
	schedule := &domain.WorkoutSchedule{
		UserID:          testUserID,
		WorkoutID:       workoutID,
		ScheduledDate:   date,
		DurationMinutes: 60,
		Status:          status,
	}
	if err := store.Schedules().Create(context.Background(), schedule); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	return schedule
}

func TestScheduleCreateConflict(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Leg Day")

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Create(ctx, testUserID, CreateScheduleInput{
		WorkoutID:       workout.ID,
		ScheduledDate:   base,
		DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("create base schedule: %v", err)
	}

	tests := []struct {
		name     string
		date     time.Time
		duration int
		wantErr  error
	}{
		{"overlapping start", base.Add(30 * time.Minute), 60, ErrScheduleConflict},
		{"identical window", base, 60, ErrScheduleConflict},
		{"straddles existing", base.Add(-30 * time.Minute), 120, ErrScheduleConflict},
		{"back to back after", base.Add(60 * time.Minute), 60, nil},
		{"back to back before", base.Add(-45 * time.Minute), 45, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, testUserID, CreateScheduleInput{
				WorkoutID:       workout.ID,
				ScheduledDate:   tc.date,
				DurationMinutes: tc.duration,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestScheduleCreateIgnoresInactiveBlockers(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Push Day")

	base := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)
	for _, status := range []domain.ScheduleStatus{
		domain.ScheduleStatusCancelled,
		domain.ScheduleStatusCompleted,
		domain.ScheduleStatusMissed,
	} {
		seedSchedule(t, store, workout.ID, base, status)
	}

	if _, err := svc.Create(ctx, testUserID, CreateScheduleInput{
		WorkoutID:       workout.ID,
		ScheduledDate:   base,
		DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("Create() over inactive schedules = %v, want nil", err)
	}
}

func TestScheduleCreateOtherUserDoesNotConflict(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Pull Day")

	base := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)
	other := &domain.WorkoutSchedule{
		UserID:          "user-2",
		WorkoutID:       workout.ID,
		ScheduledDate:   base,
		DurationMinutes: 60,
		Status:          domain.ScheduleStatusScheduled,
	}
	if err := store.Schedules().Create(ctx, other); err != nil {
		t.Fatalf("seed other user's schedule: %v", err)
	}

	if _, err := svc.Create(ctx, testUserID, CreateScheduleInput{
		WorkoutID:       workout.ID,
		ScheduledDate:   base,
		DurationMinutes: 60,
	}); err != nil {
		t.Fatalf("Create() = %v, want nil", err)
	}
}

func TestScheduleCreateDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Core")

	created, err := svc.Create(ctx, testUserID, CreateScheduleInput{
		WorkoutID:     workout.ID,
		ScheduledDate: time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if created.DurationMinutes != workout.EstimatedMinutes {
		t.Errorf("DurationMinutes = %d, want workout estimate %d", created.DurationMinutes, workout.EstimatedMinutes)
	}
	if !created.ReminderEnabled {
		t.Error("ReminderEnabled = false, want default true")
	}
	if created.ReminderMinutes != defaultReminderMinutes {
		t.Errorf("ReminderMinutes = %d, want %d", created.ReminderMinutes, defaultReminderMinutes)
	}
	if created.Status != domain.ScheduleStatusScheduled {
		t.Errorf("Status = %s, want %s", created.Status, domain.ScheduleStatusScheduled)
	}
}

func TestScheduleCreateUnknownWorkout(t *testing.T) {
	svc, _ := newTestScheduleService(t, time.Now().UTC())
	_, err := svc.Create(context.Background(), testUserID, CreateScheduleInput{
		WorkoutID:     "no-such-workout",
		ScheduledDate: time.Now().UTC().Add(24 * time.Hour),
	})
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("Create() error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestScheduleCreateInvalidRecurrence(t *testing.T) {
	svc, store := newTestScheduleService(t, time.Now().UTC())
	workout := seedWorkout(t, store, "HIIT")
	end := time.Now().UTC().AddDate(0, 1, 0)
	_, err := svc.Create(context.Background(), testUserID, CreateScheduleInput{
		WorkoutID:      workout.ID,
		ScheduledDate:  time.Now().UTC().Add(24 * time.Hour),
		IsRecurring:    true,
		RecurrenceRule: domain.RecurrenceRule("yearly"),
		RecurrenceEnd:  &end,
	})
	if !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("Create() error = %v, want ErrInvalidRecurrence", err)
	}
}

func TestScheduleCreateRecurringPersistsInstances(t *testing.T) {
	now := time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Morning Run")

	end := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	parent, err := svc.Create(ctx, testUserID, CreateScheduleInput{
		WorkoutID:       workout.ID,
		ScheduledDate:   time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC),
		ScheduledTime:   "07:00",
		DurationMinutes: 45,
		IsRecurring:     true,
		RecurrenceRule:  domain.RecurrenceWeekly,
		RecurrenceEnd:   &end,
	})
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	all, err := store.Schedules().List(ctx, testUserID, repository.ScheduleFilter{})
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d schedules, want 4 (parent + 3 instances)", len(all))
	}
	for i, sched := range all[1:] {
		wantDate := parent.ScheduledDate.AddDate(0, 0, 7*(i+1))
		if !sched.ScheduledDate.Equal(wantDate) {
			t.Errorf("instance %d date = %s, want %s", i, sched.ScheduledDate, wantDate)
		}
		if sched.ParentScheduleID == nil || *sched.ParentScheduleID != parent.ID {
			t.Errorf("instance %d parent = %v, want %s", i, sched.ParentScheduleID, parent.ID)
		}
		if sched.IsRecurring {
			t.Errorf("instance %d IsRecurring = true, want false", i)
		}
		if sched.ScheduledTime != "07:00" || sched.DurationMinutes != 45 {
			t.Errorf("instance %d did not inherit time/duration", i)
		}
	}
}

func TestExpandRecurring(t *testing.T) {
	seed := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	endAt := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name      string
		rule      domain.RecurrenceRule
		end       *time.Time
		wantCount int
	}{
		{"weekly three instances", domain.RecurrenceWeekly, endAt(time.Date(2024, 1, 22, 7, 0, 0, 0, time.UTC)), 3},
		{"end before first step", domain.RecurrenceWeekly, endAt(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), 0},
		{"nil end", domain.RecurrenceWeekly, nil, 0},
		{"unknown rule", domain.RecurrenceRule("fortnightly"), endAt(seed.AddDate(1, 0, 0)), 0},
		{"daily capped", domain.RecurrenceDaily, endAt(seed.AddDate(0, 0, 1000)), 52},
		{"monthly", domain.RecurrenceMonthly, endAt(time.Date(2024, 4, 1, 7, 0, 0, 0, time.UTC)), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parent := &domain.WorkoutSchedule{
				ID:             "parent",
				UserID:         testUserID,
				WorkoutID:      "w1",
				ScheduledDate:  seed,
				RecurrenceRule: tc.rule,
				RecurrenceEnd:  tc.end,
			}
			got := ExpandRecurring(parent)
			if len(got) != tc.wantCount {
				t.Fatalf("ExpandRecurring() = %d instances, want %d", len(got), tc.wantCount)
			}
			for i := range got {
				if got[i].ScheduledDate.Equal(seed) {
					t.Error("expansion duplicated the seed date")
				}
			}
		})
	}
}

func TestScheduleStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Leg Day")
	schedule := seedSchedule(t, store, workout.ID, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)

	started, session, err := svc.Start(ctx, testUserID, schedule.ID)
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if started.Status != domain.ScheduleStatusInProgress {
		t.Errorf("schedule status = %s, want %s", started.Status, domain.ScheduleStatusInProgress)
	}
	if session.Status != domain.SessionStatusActive {
		t.Errorf("session status = %s, want %s", session.Status, domain.SessionStatusActive)
	}
	if session.ScheduleID == nil || *session.ScheduleID != schedule.ID {
		t.Errorf("session.ScheduleID = %v, want %s", session.ScheduleID, schedule.ID)
	}
	if !session.StartedAt.Equal(now) {
		t.Errorf("session.StartedAt = %s, want %s", session.StartedAt, now)
	}

	// A second start must fail and must not leave a stray session behind.
	if _, _, err := svc.Start(ctx, testUserID, schedule.ID); !errors.Is(err, ErrInvalidScheduleState) {
		t.Fatalf("second Start() error = %v, want ErrInvalidScheduleState", err)
	}
	sessions, err := store.Sessions().List(ctx, testUserID, 0)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions after failed start, want 1", len(sessions))
	}
}

func TestScheduleStartWrongStates(t *testing.T) {
	svc, store := newTestScheduleService(t, time.Now().UTC())
	ctx := context.Background()
	workout := seedWorkout(t, store, "Pull Day")

	for _, status := range []domain.ScheduleStatus{
		domain.ScheduleStatusCompleted,
		domain.ScheduleStatusCancelled,
		domain.ScheduleStatusMissed,
	} {
		t.Run(string(status), func(t *testing.T) {
			schedule := seedSchedule(t, store, workout.ID, time.Now().UTC(), status)
			if _, _, err := svc.Start(ctx, testUserID, schedule.ID); !errors.Is(err, ErrInvalidScheduleState) {
				t.Fatalf("Start() error = %v, want ErrInvalidScheduleState", err)
			}
		})
	}
}

func TestScheduleCancelIdempotent(t *testing.T) {
	svc, store := newTestScheduleService(t, time.Now().UTC())
	ctx := context.Background()
	workout := seedWorkout(t, store, "Core")
	schedule := seedSchedule(t, store, workout.ID, time.Now().UTC().Add(48*time.Hour), domain.ScheduleStatusScheduled)

	for i := 0; i < 2; i++ {
		cancelled, err := svc.Cancel(ctx, testUserID, schedule.ID)
		if err != nil {
			t.Fatalf("Cancel() attempt %d = %v", i+1, err)
		}
		if cancelled.Status != domain.ScheduleStatusCancelled {
			t.Fatalf("status = %s, want %s", cancelled.Status, domain.ScheduleStatusCancelled)
		}
	}
}

func TestScheduleUpdateRescheduleConflict(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Leg Day")

	blocker := seedSchedule(t, store, workout.ID, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)
	target := seedSchedule(t, store, workout.ID, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)

	onto := blocker.ScheduledDate.Add(30 * time.Minute)
	if _, err := svc.Update(ctx, testUserID, target.ID, UpdateScheduleInput{ScheduledDate: &onto}); !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("Update() onto blocker = %v, want ErrScheduleConflict", err)
	}

	free := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, testUserID, target.ID, UpdateScheduleInput{ScheduledDate: &free})
	if err != nil {
		t.Fatalf("Update() to free slot = %v", err)
	}
	if !updated.ScheduledDate.Equal(free) {
		t.Errorf("ScheduledDate = %s, want %s", updated.ScheduledDate, free)
	}

	// Re-saving the current date must not conflict with the row itself.
	same := updated.ScheduledDate
	if _, err := svc.Update(ctx, testUserID, target.ID, UpdateScheduleInput{ScheduledDate: &same}); err != nil {
		t.Fatalf("Update() with unchanged date = %v", err)
	}
}

func TestScheduleUpdateNotFound(t *testing.T) {
	svc, _ := newTestScheduleService(t, time.Now().UTC())
	notes := "n"
	if _, err := svc.Update(context.Background(), testUserID, "missing", UpdateScheduleInput{Notes: &notes}); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("Update() error = %v, want ErrScheduleNotFound", err)
	}
}

func TestSweepMissed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	ctx := context.Background()
	workout := seedWorkout(t, store, "Morning Run")

	stale := seedSchedule(t, store, workout.ID, now.Add(-3*time.Hour), domain.ScheduleStatusScheduled)
	recent := seedSchedule(t, store, workout.ID, now.Add(-1*time.Hour), domain.ScheduleStatusScheduled)
	running := seedSchedule(t, store, workout.ID, now.Add(-3*time.Hour), domain.ScheduleStatusInProgress)
	done := seedSchedule(t, store, workout.ID, now.Add(-5*time.Hour), domain.ScheduleStatusCompleted)

	count, err := svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("SweepMissed() = %v", err)
	}
	if count != 1 {
		t.Fatalf("SweepMissed() count = %d, want 1", count)
	}

	wantStatus := map[string]domain.ScheduleStatus{
		stale.ID:   domain.ScheduleStatusMissed,
		recent.ID:  domain.ScheduleStatusScheduled,
		running.ID: domain.ScheduleStatusInProgress,
		done.ID:    domain.ScheduleStatusCompleted,
	}
	for id, want := range wantStatus {
		got, err := store.Schedules().GetByID(ctx, testUserID, id)
		if err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if got.Status != want {
			t.Errorf("schedule %s status = %s, want %s", id, got.Status, want)
		}
	}

	// Second sweep finds nothing new.
	count, err = svc.SweepMissed(ctx)
	if err != nil {
		t.Fatalf("second SweepMissed() = %v", err)
	}
	if count != 0 {
		t.Errorf("second sweep count = %d, want 0", count)
	}
}

func TestCalendarGroupsByDay(t *testing.T) {
	svc, store := newTestScheduleService(t, time.Now().UTC())
	ctx := context.Background()
	workout := seedWorkout(t, store, "Yoga Flow")

	seedSchedule(t, store, workout.ID, time.Date(2025, 4, 5, 7, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)
	seedSchedule(t, store, workout.ID, time.Date(2025, 4, 5, 18, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)
	seedSchedule(t, store, workout.ID, time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC), domain.ScheduleStatusCompleted)
	// Out of the requested month.
	seedSchedule(t, store, workout.ID, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), domain.ScheduleStatusScheduled)

	grid, err := svc.Calendar(ctx, testUserID, 2025, time.April)
	if err != nil {
		t.Fatalf("Calendar() = %v", err)
	}
	if len(grid) != 2 {
		t.Fatalf("got %d days, want 2: %v", len(grid), grid)
	}
	if got := len(grid["2025-04-05"]); got != 2 {
		t.Errorf("2025-04-05 has %d items, want 2", got)
	}
	if got := len(grid["2025-04-20"]); got != 1 {
		t.Errorf("2025-04-20 has %d items, want 1", got)
	}
	for _, item := range grid["2025-04-20"] {
		if item.Title != workout.Name {
			t.Errorf("item title = %q, want %q", item.Title, workout.Name)
		}
		if item.Status != domain.ScheduleStatusCompleted {
			t.Errorf("item status = %s, want %s", item.Status, domain.ScheduleStatusCompleted)
		}
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestScheduleService(t, now)
	workout := seedWorkout(t, store, "Core")

	// Seven inside the window, only five should come back.
	for day := 1; day <= 7; day++ {
		seedSchedule(t, store, workout.ID, now.Add(time.Duration(day)*24*time.Hour), domain.ScheduleStatusScheduled)
	}
	seedSchedule(t, store, workout.ID, now.Add(2*24*time.Hour+time.Hour), domain.ScheduleStatusCancelled)
	seedSchedule(t, store, workout.ID, now.AddDate(0, 0, 20), domain.ScheduleStatusScheduled)

	upcoming, err := svc.Upcoming(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("Upcoming() = %v", err)
	}
	if len(upcoming) != upcomingLimit {
		t.Fatalf("got %d schedules, want %d", len(upcoming), upcomingLimit)
	}
	for i, sched := range upcoming {
		if sched.Status != domain.ScheduleStatusScheduled {
			t.Errorf("upcoming[%d] status = %s, want SCHEDULED", i, sched.Status)
		}
		if i > 0 && sched.ScheduledDate.Before(upcoming[i-1].ScheduledDate) {
			t.Errorf("upcoming not ordered by date at index %d", i)
		}
	}
}
