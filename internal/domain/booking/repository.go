package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	// -------- Catalog --------
	GetBarber(
		ctx context.Context,
		id string,
	) (*models.Barber, error)

	GetService(
		ctx context.Context,
		id string,
	) (*models.Service, error)

	ListServices(
		ctx context.Context,
	) ([]models.Service, error)

	// -------- Availability --------
	ListBusinessHours(
		ctx context.Context,
		barberID string,
	) ([]models.BusinessHours, error)

	ListBookingsForDay(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (create / conflict) --------

	// CreateBooking inserts b unless [b.Date, b.Date+duration) overlaps another
	// booking of the same barber, in which case it returns time_conflict.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
		duration time.Duration,
	) error

	// -------- Booking (owner) --------
	GetBookingForUser(
		ctx context.Context,
		bookingID string,
		userID string,
	) (*models.Booking, error)

	DeleteBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListUserBookings(
		ctx context.Context,
		userID string,
		now time.Time,
		upcoming bool,
	) ([]models.Booking, error)

	// -------- Agenda (admin) --------
	ListAgenda(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
