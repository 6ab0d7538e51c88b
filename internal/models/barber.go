package models

import (
	"time"

	"gorm.io/gorm"
)

type Barber struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Phone       string `gorm:"size:20" json:"phone"`
	Description string `gorm:"size:255" json:"description"`
	PhotoURL    string `gorm:"size:255" json:"photo_url"`

	Services      []Service       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"services,omitempty"`
	BusinessHours []BusinessHours `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"business_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
