package domain

import "time"

// Difficulty grades workouts and exercises for catalog filtering.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Exercise is a single movement in the admin-curated catalog.
type Exercise struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:1000" json:"description,omitempty"`
	MuscleGroup string     `gorm:"size:50;index" json:"muscleGroup,omitempty"`
	Equipment   string     `gorm:"size:100" json:"equipment,omitempty"`
	Difficulty  Difficulty `gorm:"size:16" json:"difficulty,omitempty"`
	VideoURL    string     `gorm:"size:500" json:"videoUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
