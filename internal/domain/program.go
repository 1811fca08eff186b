package domain

import "time"

// Program is a multi-week training plan built from catalog workouts.
type Program struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:2000" json:"description,omitempty"`
	Difficulty  Difficulty `gorm:"size:16;index" json:"difficulty,omitempty"`
	Weeks       int        `gorm:"not null" json:"weeks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Workouts []ProgramWorkout `gorm:"foreignKey:ProgramID" json:"workouts,omitempty"`
}

// ProgramWorkout slots a workout into a program at week/day granularity.
type ProgramWorkout struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProgramID string `gorm:"size:36;index;not null" json:"programId"`
	WorkoutID string `gorm:"size:36;not null" json:"workoutId"`
	Week      int    `gorm:"not null" json:"week"`
	Day       int    `gorm:"not null" json:"day"`

	Workout *Workout `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
}

// EnrollmentStatus tracks a user's progress through a program.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// ProgramEnrollment links a user to a program they are working through.
// A user has at most one ACTIVE enrollment per program.
type ProgramEnrollment struct {
	ID          string           `gorm:"primaryKey;size:36" json:"id"`
	UserID      string           `gorm:"size:36;index;not null" json:"userId"`
	ProgramID   string           `gorm:"size:36;index;not null" json:"programId"`
	Status      EnrollmentStatus `gorm:"size:16;index;not null" json:"status"`
	CurrentWeek int              `gorm:"not null;default:1" json:"currentWeek"`
	StartedAt   time.Time        `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}
