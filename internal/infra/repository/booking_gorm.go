package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetBarber(
	ctx context.Context,
	id string,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) ListServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Select("id", "duration_min").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) ListBusinessHours(
	ctx context.Context,
	barberID string,
) ([]models.BusinessHours, error) {

	var hours []models.BusinessHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *BookingGormRepository) ListBookingsForDay(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "barber_id", "service_id", "date").
		Where("barber_id = ? AND date >= ? AND date < ?", barberID, start, end).
		Order("date ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// overlapLookback bounds how far before a new booking an existing one may
// start and still reach into it.
const overlapLookback = 24 * time.Hour

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
	duration time.Duration,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		end := b.Date.Add(duration)

		// Writers for one barber queue on the barber row, so the probe below
		// sees every committed booking even when the window is still empty.
		var barber models.Barber
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", b.BarberID).
			First(&barber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("barber_not_found")
			}
			return err
		}

		var existing []models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Service").
			Where(
				"barber_id = ? AND date > ? AND date < ?",
				b.BarberID,
				b.Date.Add(-overlapLookback),
				end,
			).
			Find(&existing).Error; err != nil {
			return err
		}

		for _, other := range existing {
			otherEnd := other.Date.Add(time.Duration(other.Service.DurationMin) * time.Minute)
			if availability.Overlaps(b.Date, end, other.Date, otherEnd) || other.Date.Equal(b.Date) {
				return httperr.ErrBusiness("time_conflict")
			}
		}

		return tx.Create(b).Error
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Booking (owner)
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingForUser(
	ctx context.Context,
	bookingID string,
	userID string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Delete(b).Error
}

func (r *BookingGormRepository) ListUserBookings(
	ctx context.Context,
	userID string,
	now time.Time,
	upcoming bool,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("user_id = ?", userID)

	if upcoming {
		q = q.Where("date > ?", now).Order("date ASC")
	} else {
		q = q.Where("date <= ?", now).Order("date DESC")
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *BookingGormRepository) ListAgenda(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("barber_id = ? AND date >= ? AND date < ?", barberID, start, end).
		Order("date ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
