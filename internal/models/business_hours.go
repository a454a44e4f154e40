package models

import "time"

// One row per weekday, pre-seeded; only ever updated by the admin.
type BusinessHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int `gorm:"uniqueIndex;not null" json:"day_of_week"`

	StartTime string `gorm:"size:5" json:"start_time"` // wall clock "15:04"
	EndTime   string `gorm:"size:5" json:"end_time"`
	IsActive  bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
