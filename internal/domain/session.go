package domain

import "time"

// SessionStatus tracks a workout session from start to finish.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusAbandoned SessionStatus = "ABANDONED"
)

// WorkoutSession records a user actually performing a workout. A session may
// originate from a schedule (ScheduleID set) or be started ad hoc.
type WorkoutSession struct {
	ID              string        `gorm:"primaryKey;size:36" json:"id"`
	UserID          string        `gorm:"size:36;index;not null" json:"userId"`
	WorkoutID       string        `gorm:"size:36;not null" json:"workoutId"`
	ScheduleID      *string       `gorm:"size:36;index" json:"scheduleId,omitempty"`
	Status          SessionStatus `gorm:"size:16;index;not null" json:"status"`
	StartedAt       time.Time     `gorm:"not null" json:"startedAt"`
	CompletedAt     *time.Time    `json:"completedAt,omitempty"`
	DurationSeconds int           `json:"durationSeconds,omitempty"`
	CaloriesBurned  int           `json:"caloriesBurned,omitempty"`
	Notes           string        `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	Workout *Workout `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
}
