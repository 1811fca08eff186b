package service

import (
	"context"
	"errors"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
)

// WorkoutExerciseInput prescribes one exercise slot when building a workout.
type WorkoutExerciseInput struct {
	ExerciseID  string
	Sets        int
	Reps        int
	RestSeconds int
}

// CreateWorkoutInput carries the fields for a new catalog workout.
type CreateWorkoutInput struct {
	Name             string
	Description      string
	Category         string
	Difficulty       domain.Difficulty
	EstimatedMinutes int
	Exercises        []WorkoutExerciseInput
}

// WorkoutService manages the admin-curated workout and exercise catalog.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, in CreateWorkoutInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID string) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID string, in CreateWorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, workoutID string) error

	CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	ListExercises(ctx context.Context, muscleGroup string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID string) error
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, in CreateWorkoutInput) (*domain.Workout, error) {
	if in.Name == "" {
		return nil, ErrValidationFailed
	}

	workout := &domain.Workout{
		Name:             in.Name,
		Description:      in.Description,
		Category:         in.Category,
		Difficulty:       in.Difficulty,
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if workout.EstimatedMinutes <= 0 {
		workout.EstimatedMinutes = 60
	}

	for i, ex := range in.Exercises {
		if _, err := s.exerciseRepo.GetByID(ctx, ex.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrExerciseNotFound
			}
			return nil, err
		}
		workout.Exercises = append(workout.Exercises, domain.WorkoutExercise{
			ExerciseID:  ex.ExerciseID,
			Sequence:    i + 1,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
		})
	}

	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workout.ID)
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx, filter)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, workoutID string, in CreateWorkoutInput) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		workout.Name = in.Name
	}
	workout.Description = in.Description
	workout.Category = in.Category
	if in.Difficulty != "" {
		workout.Difficulty = in.Difficulty
	}
	if in.EstimatedMinutes > 0 {
		workout.EstimatedMinutes = in.EstimatedMinutes
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID string) error {
	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

func (s *workoutService) CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *workoutService) ListExercises(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx, muscleGroup)
}

func (s *workoutService) UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, exercise.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if exercise.Name != "" {
		existing.Name = exercise.Name
	}
	existing.Description = exercise.Description
	existing.MuscleGroup = exercise.MuscleGroup
	existing.Equipment = exercise.Equipment
	if exercise.Difficulty != "" {
		existing.Difficulty = exercise.Difficulty
	}
	existing.VideoURL = exercise.VideoURL

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *workoutService) DeleteExercise(ctx context.Context, exerciseID string) error {
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
