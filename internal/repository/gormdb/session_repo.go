package gormdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", translate(err))
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ? AND id = ?", userID, id).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *sessionRepository) GetActive(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ? AND status = ?", userID, domain.SessionStatusActive).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context, userID string, limit int) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	q := r.db.WithContext(ctx).
		Preload("Workout").
		Where("user_id = ?", userID).
		Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	res := r.db.WithContext(ctx).
		Omit("Workout").
		Where("user_id = ?", session.UserID).
		Save(session)
	if res.Error != nil {
		return fmt.Errorf("update session: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
