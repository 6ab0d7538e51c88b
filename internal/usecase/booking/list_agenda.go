package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ListAgenda is the barber's day as seen from the back office.
type ListAgenda struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewListAgenda(
	repo domain.Repository,
	loc *time.Location,
) *ListAgenda {
	return &ListAgenda{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (uc *ListAgenda) Execute(
	ctx context.Context,
	barberID string,
	date string,
) ([]dto.AgendaItemDTO, error) {

	day, err := timezone.ParseDate(uc.loc, date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	start := availability.StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	bookings, err := uc.repo.ListAgenda(ctx, barberID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}

	now := uc.now()

	out := make([]dto.AgendaItemDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.AgendaItemDTO{
			ID:          b.ID,
			Date:        b.Date,
			EndTime:     b.Date.Add(time.Duration(b.Service.DurationMin) * time.Minute),
			Status:      string(domain.StatusAt(&b, now)),
			ClientName:  b.User.Name,
			ClientPhone: b.User.Phone,
			ServiceName: b.Service.Name,
		})
	}

	return out, nil
}
