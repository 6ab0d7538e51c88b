package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Booking Status
// ===============================

// Status is derived from the clock, never stored.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusFinished  Status = "finished"
)

func StatusAt(b *models.Booking, now time.Time) Status {
	if b.Date.After(now) {
		return StatusConfirmed
	}
	return StatusFinished
}

// ===============================
// Validations
// ===============================

// CanCancel allows cancelling only bookings that have not started yet.
func CanCancel(b *models.Booking, now time.Time) error {
	if StatusAt(b, now) != StatusConfirmed {
		return httperr.ErrBusiness("booking_already_finished")
	}
	return nil
}
