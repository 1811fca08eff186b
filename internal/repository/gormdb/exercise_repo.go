package gormdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type exerciseRepository struct {
	db *gorm.DB
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return fmt.Errorf("create exercise: %w", translate(err))
	}
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&exercise).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	q := r.db.WithContext(ctx).Order("name")
	if muscleGroup != "" {
		q = q.Where("muscle_group = ?", muscleGroup)
	}
	if err := q.Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.db.WithContext(ctx).Save(exercise).Error; err != nil {
		return fmt.Errorf("update exercise: %w", translate(err))
	}
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Exercise{})
	if res.Error != nil {
		return fmt.Errorf("delete exercise: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
