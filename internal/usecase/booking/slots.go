package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// lookup resolves the barber and service of a request into business errors.
func lookup(
	ctx context.Context,
	repo domain.Repository,
	barberID string,
	serviceID string,
) (*models.Barber, *models.Service, error) {

	service, err := repo.GetService(ctx, serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get service: %w", err)
	}

	barber, err := repo.GetBarber(ctx, barberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get barber: %w", err)
	}

	return barber, service, nil
}

// freeSlots loads the barber's day and runs the availability engine over it.
// Days before today have no slots.
func freeSlots(
	ctx context.Context,
	repo domain.Repository,
	barberID string,
	service *models.Service,
	day time.Time,
	now time.Time,
) ([]string, error) {

	dayStart := availability.StartOfDay(day)
	if dayStart.Before(availability.StartOfDay(now.In(day.Location()))) {
		return []string{}, nil
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	hours, err := repo.ListBusinessHours(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}

	bookings, err := repo.ListBookingsForDay(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	services, err := repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	started := time.Now()
	slots, err := availability.Compute(availability.Query{
		Day:             dayStart,
		Now:             now,
		BarberID:        barberID,
		ServiceDuration: time.Duration(service.DurationMin) * time.Minute,
		Hours:           domain.ToWorkingHours(hours),
		Bookings:        domain.ToBookingRecords(bookings),
		Services:        domain.ToServiceRecords(services),
	})
	metrics.AvailabilityDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("compute availability: %w", err)
	}

	metrics.AvailabilitySlots.Observe(float64(len(slots)))
	return slots, nil
}
