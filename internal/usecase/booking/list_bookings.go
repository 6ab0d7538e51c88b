package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListBookings struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{
		repo: repo,
		now:  time.Now,
	}
}

// Execute splits the user's bookings into confirmed (upcoming, soonest
// first) and finished (most recent first).
func (uc *ListBookings) Execute(
	ctx context.Context,
	userID string,
) (*dto.BookingsPageDTO, error) {

	now := uc.now()

	upcoming, err := uc.repo.ListUserBookings(ctx, userID, now, true)
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	past, err := uc.repo.ListUserBookings(ctx, userID, now, false)
	if err != nil {
		return nil, fmt.Errorf("list past bookings: %w", err)
	}

	return &dto.BookingsPageDTO{
		Confirmed: toListDTO(upcoming, now),
		Finished:  toListDTO(past, now),
	}, nil
}

func toListDTO(bookings []models.Booking, now time.Time) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:          b.ID,
			Date:        b.Date,
			EndTime:     b.Date.Add(time.Duration(b.Service.DurationMin) * time.Minute),
			Status:      string(domain.StatusAt(&b, now)),
			BarberID:    b.BarberID,
			BarberName:  b.Barber.Name,
			ServiceID:   b.ServiceID,
			ServiceName: b.Service.Name,
			Price:       b.Service.Price,
		})
	}
	return out
}
