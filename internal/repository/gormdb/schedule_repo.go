package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type scheduleRepository struct {
	db *gorm.DB
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.WorkoutSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("create schedule: %w", translate(err))
	}
	return nil
}

func (r *scheduleRepository) CreateBatch(ctx context.Context, schedules []domain.WorkoutSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	for i := range schedules {
		if schedules[i].ID == "" {
			schedules[i].ID = uuid.NewString()
		}
	}
	if err := r.db.WithContext(ctx).Create(&schedules).Error; err != nil {
		return fmt.Errorf("create schedule batch: %w", translate(err))
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSchedule, error) {
	var schedule domain.WorkoutSchedule
	err := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ? AND id = ?", userID, id).
		First(&schedule).Error
	if err != nil {
		return nil, translate(err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) List(ctx context.Context, userID string, filter repository.ScheduleFilter) ([]domain.WorkoutSchedule, error) {
	var schedules []domain.WorkoutSchedule
	q := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ?", userID).
		Order("scheduled_date")
	if filter.From != nil {
		q = q.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("scheduled_date <= ?", *filter.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.WorkoutID != "" {
		q = q.Where("workout_id = ?", filter.WorkoutID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) ListActiveBetween(ctx context.Context, userID string, from, to time.Time, excludeID string) ([]domain.WorkoutSchedule, error) {
	var schedules []domain.WorkoutSchedule
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []domain.ScheduleStatus{
			domain.ScheduleStatusScheduled,
			domain.ScheduleStatusInProgress,
		}).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to).
		Order("scheduled_date")
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *domain.WorkoutSchedule) error {
	// Save would also write the preloaded Workout association back.
	res := r.db.WithContext(ctx).
		Omit("Workout").
		Where("user_id = ?", schedule.UserID).
		Save(schedule)
	if res.Error != nil {
		return fmt.Errorf("update schedule: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.WorkoutSchedule{}).
		Where("status = ? AND scheduled_date < ?", domain.ScheduleStatusScheduled, cutoff).
		Update("status", domain.ScheduleStatusMissed)
	if res.Error != nil {
		return 0, fmt.Errorf("mark missed: %w", translate(res.Error))
	}
	return res.RowsAffected, nil
}
