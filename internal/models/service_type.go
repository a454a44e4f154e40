package models

import "time"

type ServiceType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	NameZh      string `gorm:"size:100" json:"name_zh"`
	Description string `gorm:"size:255" json:"description"`

	DurationMinutes int  `gorm:"not null" json:"duration_minutes"`
	PriceCents      int  `gorm:"not null" json:"price_cents"`
	IsActive        bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
