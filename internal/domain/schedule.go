package domain

import "time"

// ScheduleStatus tracks a planned workout through its lifecycle.
// SCHEDULED is the only state the user can start from; CANCELLED and MISSED
// are terminal, COMPLETED is reached through the session completion flow.
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "SCHEDULED"
	ScheduleStatusInProgress ScheduleStatus = "IN_PROGRESS"
	ScheduleStatusCompleted  ScheduleStatus = "COMPLETED"
	ScheduleStatusCancelled  ScheduleStatus = "CANCELLED"
	ScheduleStatusMissed     ScheduleStatus = "MISSED"
)

// ValidScheduleStatus reports whether s is one of the five known states.
func ValidScheduleStatus(s ScheduleStatus) bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted,
		ScheduleStatusCancelled, ScheduleStatusMissed:
		return true
	}
	return false
}

// IsActive reports whether the schedule still occupies its time window for
// conflict purposes.
func (s ScheduleStatus) IsActive() bool {
	return s == ScheduleStatusScheduled || s == ScheduleStatusInProgress
}

// RecurrenceRule is the closed set of supported repeat intervals.
// The empty value means "does not recur".
type RecurrenceRule string

const (
	RecurrenceNone    RecurrenceRule = ""
	RecurrenceDaily   RecurrenceRule = "daily"
	RecurrenceWeekly  RecurrenceRule = "weekly"
	RecurrenceMonthly RecurrenceRule = "monthly"
)

// Valid reports whether r names a known repeat interval (empty excluded).
func (r RecurrenceRule) Valid() bool {
	return r == RecurrenceDaily || r == RecurrenceWeekly || r == RecurrenceMonthly
}

// Step advances t by one repeat interval. ok is false for an unknown rule,
// in which case t is returned unchanged.
func (r RecurrenceRule) Step(t time.Time) (next time.Time, ok bool) {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0), true
	}
	return t, false
}

// WorkoutSchedule is a user's intent to perform a workout at a specific time.
// ScheduledDate is the single source of truth for ordering and conflict
// detection; ScheduledTime is a display hint only.
type WorkoutSchedule struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	UserID          string         `gorm:"size:36;index;not null" json:"userId"`
	WorkoutID       string         `gorm:"size:36;not null" json:"workoutId"`
	ScheduledDate   time.Time      `gorm:"index;not null" json:"scheduledDate"`
	ScheduledTime   string         `gorm:"size:5" json:"scheduledTime,omitempty"`
	DurationMinutes int            `gorm:"not null" json:"durationMinutes"`
	Status          ScheduleStatus `gorm:"size:16;index;not null" json:"status"`
	Notes           string         `gorm:"size:500" json:"notes,omitempty"`

	// Reminder preference only; nothing in this service dispatches
	// notifications.
	ReminderEnabled bool `gorm:"not null;default:true" json:"reminderEnabled"`
	ReminderMinutes int  `gorm:"not null;default:30" json:"reminderMinutes"`

	IsRecurring      bool           `gorm:"not null;default:false" json:"isRecurring"`
	RecurrenceRule   RecurrenceRule `gorm:"size:16" json:"recurrenceRule,omitempty"`
	RecurrenceEnd    *time.Time     `json:"recurrenceEnd,omitempty"`
	ParentScheduleID *string        `gorm:"size:36;index" json:"parentScheduleId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Workout *Workout `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
}

// EndTime is the exclusive end of the schedule's occupancy window.
func (s *WorkoutSchedule) EndTime() time.Time {
	return s.ScheduledDate.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the window [start, end) intersects this
// schedule's window. Touching endpoints do not overlap.
func (s *WorkoutSchedule) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndTime()) && end.After(s.ScheduledDate)
}
