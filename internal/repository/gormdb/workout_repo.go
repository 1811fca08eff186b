package gormdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type workoutRepository struct {
	db *gorm.DB
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	for i := range workout.Exercises {
		if workout.Exercises[i].ID == "" {
			workout.Exercises[i].ID = uuid.NewString()
		}
		workout.Exercises[i].WorkoutID = workout.ID
	}
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return fmt.Errorf("create workout: %w", translate(err))
	}
	return nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("sequence") }).
		Preload("Exercises.Exercise").
		Where("id = ?", id).
		First(&workout).Error
	if err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

func (r *workoutRepository) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	var workouts []domain.Workout
	q := r.db.WithContext(ctx).Order("name")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if err := q.Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if err := r.db.WithContext(ctx).Save(workout).Error; err != nil {
		return fmt.Errorf("update workout: %w", translate(err))
	}
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&domain.WorkoutExercise{}).Error; err != nil {
			return fmt.Errorf("delete workout exercises: %w", translate(err))
		}
		res := tx.Where("id = ?", id).Delete(&domain.Workout{})
		if res.Error != nil {
			return fmt.Errorf("delete workout: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
