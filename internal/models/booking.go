package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking occupies [Date, Date + Service.DurationMin) on the barber's agenda.
// The (barber_id, date) unique index backs the application-level overlap check.
type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID string `gorm:"size:36;not null;index" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	BarberID string `gorm:"size:36;not null;uniqueIndex:idx_bookings_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber"`

	ServiceID string  `gorm:"size:36;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	Date time.Time `gorm:"not null;uniqueIndex:idx_bookings_barber_date" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
