package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type AvailabilityInput struct {
	BarberID  string
	ServiceID string
	Date      string // YYYY-MM-DD
}

type Availability struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type GetAvailability struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	loc *time.Location,
) *GetAvailability {
	return &GetAvailability{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*Availability, error) {

	day, err := timezone.ParseDate(uc.loc, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	_, service, err := lookup(ctx, uc.repo, in.BarberID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	slots, err := freeSlots(ctx, uc.repo, in.BarberID, service, day, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}

	return &Availability{
		Date:  day.Format("2006-01-02"),
		Slots: slots,
	}, nil
}
