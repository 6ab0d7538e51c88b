package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type CancelBooking struct {
	repo  domain.Repository
	audit audit.Sink
	now   func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	audit audit.Sink,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Execute deletes a future booking owned by userID.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	userID string,
	bookingID string,
) error {

	if userID == "" {
		return httperr.ErrBusiness("unauthenticated")
	}

	b, err := uc.repo.GetBookingForUser(ctx, bookingID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}

	if err := domain.CanCancel(b, uc.now()); err != nil {
		return err
	}

	if err := uc.repo.DeleteBooking(ctx, b); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"barber_id": b.BarberID,
			"date":      b.Date,
		},
	})

	return nil
}
