package service

import (
	"context"
	"errors"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this program")
	ErrEnrollmentClosed   = errors.New("enrollment is not active")
)

// ProgramWorkoutInput slots a workout into a program being created.
type ProgramWorkoutInput struct {
	WorkoutID string
	Week      int
	Day       int
}

// CreateProgramInput carries the fields for a new program.
type CreateProgramInput struct {
	Name        string
	Description string
	Difficulty  domain.Difficulty
	Weeks       int
	Workouts    []ProgramWorkoutInput
}

// ProgramService manages the program catalog and user enrollments.
type ProgramService interface {
	Create(ctx context.Context, in CreateProgramInput) (*domain.Program, error)
	Get(ctx context.Context, programID string) (*domain.Program, error)
	List(ctx context.Context, difficulty domain.Difficulty) ([]domain.Program, error)

	Enroll(ctx context.Context, userID, programID string) (*domain.ProgramEnrollment, error)
	MyEnrollments(ctx context.Context, userID string) ([]domain.ProgramEnrollment, error)
	// Advance moves an active enrollment to the next week, completing it
	// past the final week.
	Advance(ctx context.Context, userID, enrollmentID string) (*domain.ProgramEnrollment, error)
	Withdraw(ctx context.Context, userID, enrollmentID string) (*domain.ProgramEnrollment, error)
}

type programService struct {
	programRepo repository.ProgramRepository
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewProgramService(programRepo repository.ProgramRepository, workoutRepo repository.WorkoutRepository) ProgramService {
	return &programService{
		programRepo: programRepo,
		workoutRepo: workoutRepo,
		now:         time.Now,
	}
}

func (s *programService) Create(ctx context.Context, in CreateProgramInput) (*domain.Program, error) {
	if in.Name == "" || in.Weeks <= 0 {
		return nil, ErrValidationFailed
	}

	program := &domain.Program{
		Name:        in.Name,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		Weeks:       in.Weeks,
	}
	for _, w := range in.Workouts {
		if w.Week < 1 || w.Week > in.Weeks || w.Day < 1 || w.Day > 7 {
			return nil, ErrValidationFailed
		}
		if _, err := s.workoutRepo.GetByID(ctx, w.WorkoutID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWorkoutNotFound
			}
			return nil, err
		}
		program.Workouts = append(program.Workouts, domain.ProgramWorkout{
			WorkoutID: w.WorkoutID,
			Week:      w.Week,
			Day:       w.Day,
		})
	}

	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, program.ID)
}

func (s *programService) Get(ctx context.Context, programID string) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *programService) List(ctx context.Context, difficulty domain.Difficulty) ([]domain.Program, error) {
	return s.programRepo.List(ctx, difficulty)
}

func (s *programService) Enroll(ctx context.Context, userID, programID string) (*domain.ProgramEnrollment, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	if _, err := s.programRepo.GetActiveEnrollment(ctx, userID, programID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	enrollment := &domain.ProgramEnrollment{
		UserID:      userID,
		ProgramID:   program.ID,
		Status:      domain.EnrollmentStatusActive,
		CurrentWeek: 1,
		StartedAt:   s.now().UTC(),
	}
	if err := s.programRepo.CreateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}
	enrollment.Program = program
	return enrollment, nil
}

func (s *programService) MyEnrollments(ctx context.Context, userID string) ([]domain.ProgramEnrollment, error) {
	return s.programRepo.ListEnrollments(ctx, userID)
}

func (s *programService) Advance(ctx context.Context, userID, enrollmentID string) (*domain.ProgramEnrollment, error) {
	enrollment, err := s.programRepo.GetEnrollment(ctx, userID, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.Status != domain.EnrollmentStatusActive {
		return nil, ErrEnrollmentClosed
	}

	weeks := 0
	if enrollment.Program != nil {
		weeks = enrollment.Program.Weeks
	}
	if enrollment.CurrentWeek >= weeks {
		completedAt := s.now().UTC()
		enrollment.Status = domain.EnrollmentStatusCompleted
		enrollment.CompletedAt = &completedAt
	} else {
		enrollment.CurrentWeek++
	}

	if err := s.programRepo.UpdateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *programService) Withdraw(ctx context.Context, userID, enrollmentID string) (*domain.ProgramEnrollment, error) {
	enrollment, err := s.programRepo.GetEnrollment(ctx, userID, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.Status != domain.EnrollmentStatusActive {
		return nil, ErrEnrollmentClosed
	}

	enrollment.Status = domain.EnrollmentStatusWithdrawn
	if err := s.programRepo.UpdateEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
