package gormdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

type programRepository struct {
	db *gorm.DB
}

func (r *programRepository) Create(ctx context.Context, program *domain.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	for i := range program.Workouts {
		if program.Workouts[i].ID == "" {
			program.Workouts[i].ID = uuid.NewString()
		}
		program.Workouts[i].ProgramID = program.ID
	}
	if err := r.db.WithContext(ctx).Create(program).Error; err != nil {
		return fmt.Errorf("create program: %w", translate(err))
	}
	return nil
}

func (r *programRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	var program domain.Program
	err := r.db.WithContext(ctx).
		Preload("Workouts", func(db *gorm.DB) *gorm.DB { return db.Order("week, day") }).
		Preload("Workouts.Workout").
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, translate(err)
	}
	return &program, nil
}

func (r *programRepository) List(ctx context.Context, difficulty domain.Difficulty) ([]domain.Program, error) {
	var programs []domain.Program
	q := r.db.WithContext(ctx).Order("name")
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if err := q.Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *programRepository) Update(ctx context.Context, program *domain.Program) error {
	if err := r.db.WithContext(ctx).Omit("Workouts").Save(program).Error; err != nil {
		return fmt.Errorf("update program: %w", translate(err))
	}
	return nil
}

func (r *programRepository) CreateEnrollment(ctx context.Context, enrollment *domain.ProgramEnrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("create enrollment: %w", translate(err))
	}
	return nil
}

func (r *programRepository) GetEnrollment(ctx context.Context, userID, id string) (*domain.ProgramEnrollment, error) {
	var enrollment domain.ProgramEnrollment
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ? AND id = ?", userID, id).
		First(&enrollment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &enrollment, nil
}

func (r *programRepository) GetActiveEnrollment(ctx context.Context, userID, programID string) (*domain.ProgramEnrollment, error) {
	var enrollment domain.ProgramEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ? AND status = ?",
			userID, programID, domain.EnrollmentStatusActive).
		First(&enrollment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &enrollment, nil
}

func (r *programRepository) ListEnrollments(ctx context.Context, userID string) ([]domain.ProgramEnrollment, error) {
	var enrollments []domain.ProgramEnrollment
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *programRepository) UpdateEnrollment(ctx context.Context, enrollment *domain.ProgramEnrollment) error {
	res := r.db.WithContext(ctx).
		Omit("Program").
		Where("user_id = ?", enrollment.UserID).
		Save(enrollment)
	if res.Error != nil {
		return fmt.Errorf("update enrollment: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
