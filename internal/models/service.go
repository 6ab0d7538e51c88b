package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a priced, timed offering of one barber.
type Service struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	BarberID string `gorm:"size:36;not null;index" json:"barber_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	ImageURL    string  `gorm:"size:255" json:"image_url"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
