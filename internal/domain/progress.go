package domain

import "time"

// ProgressEntry is a body-stat measurement recorded by the user.
type ProgressEntry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;index;not null" json:"userId"`
	RecordedAt time.Time `gorm:"index;not null" json:"recordedAt"`
	WeightKg   *float64  `json:"weightKg,omitempty"`
	BodyFatPct *float64  `json:"bodyFatPct,omitempty"`
	ChestCm    *float64  `json:"chestCm,omitempty"`
	WaistCm    *float64  `json:"waistCm,omitempty"`
	HipsCm     *float64  `json:"hipsCm,omitempty"`
	Notes      string    `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProgressPhoto is metadata for a photo stored in object storage. The image
// bytes never pass through this service; clients upload and download through
// presigned URLs.
type ProgressPhoto struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"userId"`
	ObjectKey   string    `gorm:"size:500;not null" json:"-"`
	ContentType string    `gorm:"size:100" json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes,omitempty"`
	TakenAt     time.Time `gorm:"index;not null" json:"takenAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
