package models

import (
	"time"

	"gorm.io/gorm"
)

// BusinessHours is one weekday of a barber's schedule. Times are "HH:MM".
type BusinessHours struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	BarberID string `gorm:"size:36;not null;uniqueIndex:idx_business_hours_barber_day" json:"barber_id"`

	DayOfWeek string `gorm:"size:10;not null;uniqueIndex:idx_business_hours_barber_day" json:"day_of_week"`
	IsOpen    bool   `json:"is_open"`

	StartTime      string `gorm:"size:5" json:"start_time"`
	EndTime        string `gorm:"size:5" json:"end_time"`
	LunchStartTime string `gorm:"size:5" json:"lunch_start_time"`
	LunchEndTime   string `gorm:"size:5" json:"lunch_end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *BusinessHours) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
