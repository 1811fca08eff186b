package domain

import "time"

// Role distinguishes regular users from content administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account holder.
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:60;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null;default:user" json:"role"`

	// Optional profile fields used by the progress tracker.
	HeightCm     *float64 `json:"heightCm,omitempty"`
	WeightGoalKg *float64 `json:"weightGoalKg,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
