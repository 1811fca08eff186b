package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/service"
)

// stubScheduleService lets each test pin just the methods it exercises.
type stubScheduleService struct {
	createFn func(ctx context.Context, userID string, in service.CreateScheduleInput) (*domain.WorkoutSchedule, error)
	getFn    func(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error)
	startFn  func(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, *domain.WorkoutSession, error)
	feedFn   func(ctx context.Context, userID string) (string, error)
}

func (s *stubScheduleService) Create(ctx context.Context, userID string, in service.CreateScheduleInput) (*domain.WorkoutSchedule, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubScheduleService) Get(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, error) {
	return s.getFn(ctx, userID, scheduleID)
}

func (s *stubScheduleService) List(context.Context, string, repository.ScheduleFilter) ([]domain.WorkoutSchedule, error) {
	return nil, nil
}

func (s *stubScheduleService) Update(context.Context, string, string, service.UpdateScheduleInput) (*domain.WorkoutSchedule, error) {
	return nil, nil
}

func (s *stubScheduleService) Cancel(context.Context, string, string) (*domain.WorkoutSchedule, error) {
	return nil, nil
}

func (s *stubScheduleService) Start(ctx context.Context, userID, scheduleID string) (*domain.WorkoutSchedule, *domain.WorkoutSession, error) {
	return s.startFn(ctx, userID, scheduleID)
}

func (s *stubScheduleService) Calendar(context.Context, string, int, time.Month) (map[string][]service.CalendarItem, error) {
	return nil, nil
}

func (s *stubScheduleService) Upcoming(context.Context, string) ([]domain.WorkoutSchedule, error) {
	return nil, nil
}

func (s *stubScheduleService) CalendarFeed(ctx context.Context, userID string) (string, error) {
	return s.feedFn(ctx, userID)
}

func (s *stubScheduleService) SweepMissed(context.Context) (int64, error) {
	return 0, nil
}

func newScheduleTestRouter(stub *stubScheduleService) *gin.Engine {
	router := gin.New()
	// Stand-in for AuthMiddleware.
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
		c.Set(ContextUserRoleKey, domain.RoleUser)
	})
	handler := NewScheduleHandler(stub)
	router.POST("/schedules", handler.CreateSchedule)
	router.GET("/schedules/feed.ics", handler.Feed)
	router.GET("/schedules/:id", handler.GetSchedule)
	router.POST("/schedules/:id/start", handler.StartSchedule)
	return router
}

func TestCreateScheduleValidation(t *testing.T) {
	stub := &stubScheduleService{
		createFn: func(_ context.Context, _ string, _ service.CreateScheduleInput) (*domain.WorkoutSchedule, error) {
			return &domain.WorkoutSchedule{ID: "s1", Status: domain.ScheduleStatusScheduled}, nil
		},
	}
	router := newScheduleTestRouter(stub)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"valid request",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z"}`,
			http.StatusCreated,
		},
		{
			"missing workoutId",
			`{"scheduledDate":"2025-03-10T09:00:00Z"}`,
			http.StatusBadRequest,
		},
		{
			"duration out of range",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z","durationMinutes":500}`,
			http.StatusBadRequest,
		},
		{
			"bad recurrence rule",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z","isRecurring":true,"recurrenceRule":"yearly"}`,
			http.StatusBadRequest,
		},
		{
			"recurring without rule",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z","isRecurring":true}`,
			http.StatusBadRequest,
		},
		{
			"clock disagrees with date",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z","scheduledTime":"10:00"}`,
			http.StatusBadRequest,
		},
		{
			"clock agrees with date",
			`{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z","scheduledTime":"09:00"}`,
			http.StatusCreated,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestScheduleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"schedule not found", service.ErrScheduleNotFound, http.StatusNotFound},
		{"workout not found", service.ErrWorkoutNotFound, http.StatusNotFound},
		{"conflict", service.ErrScheduleConflict, http.StatusConflict},
		{"invalid state", service.ErrInvalidScheduleState, http.StatusConflict},
		{"invalid recurrence", service.ErrInvalidRecurrence, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubScheduleService{
				createFn: func(_ context.Context, _ string, _ service.CreateScheduleInput) (*domain.WorkoutSchedule, error) {
					return nil, tc.serviceErr
				},
			}
			router := newScheduleTestRouter(stub)

			body := `{"workoutId":"w1","scheduledDate":"2025-03-10T09:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

func TestStartScheduleInvalidState(t *testing.T) {
	stub := &stubScheduleService{
		startFn: func(_ context.Context, _, _ string) (*domain.WorkoutSchedule, *domain.WorkoutSession, error) {
			return nil, nil, service.ErrInvalidScheduleState
		},
	}
	router := newScheduleTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/schedules/s1/start", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestFeedContentType(t *testing.T) {
	stub := &stubScheduleService{
		feedFn: func(_ context.Context, _ string) (string, error) {
			return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
		},
	}
	router := newScheduleTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/schedules/feed.ics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "workouts.ics") {
		t.Errorf("Content-Disposition = %q, want filename workouts.ics", w.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("body missing calendar payload")
	}
}
