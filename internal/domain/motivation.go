package domain

import "time"

// Quote is a motivational quote shown on the dashboard.
type Quote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Author    string    `gorm:"size:100" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// KudosPhrase is a short congratulation returned when a session completes.
type KudosPhrase struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Text      string    `gorm:"size:200;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
