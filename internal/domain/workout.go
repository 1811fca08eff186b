package domain

import "time"

// Workout is a reusable template composed of ordered exercises.
// Schedules and sessions reference workouts by id; deleting a workout is an
// admin catalog operation and does not cascade into user history.
type Workout struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Description      string     `gorm:"size:1000" json:"description,omitempty"`
	Category         string     `gorm:"size:50;index" json:"category,omitempty"`
	Difficulty       Difficulty `gorm:"size:16;index" json:"difficulty,omitempty"`
	EstimatedMinutes int        `gorm:"not null;default:60" json:"estimatedMinutes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises,omitempty"`
}

// WorkoutExercise places an exercise inside a workout with its prescription.
type WorkoutExercise struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	WorkoutID   string `gorm:"size:36;index;not null" json:"workoutId"`
	ExerciseID  string `gorm:"size:36;not null" json:"exerciseId"`
	Sequence    int    `gorm:"not null" json:"sequence"`
	Sets        int    `json:"sets,omitempty"`
	Reps        int    `json:"reps,omitempty"`
	RestSeconds int    `json:"restSeconds,omitempty"`

	Exercise *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}
