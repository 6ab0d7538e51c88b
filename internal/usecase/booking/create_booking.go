package booking

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/slotlock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID string

	BarberID  string
	ServiceID string

	Date string // YYYY-MM-DD
	Time string // HH:MM
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	locker  slotlock.Locker
	holdTTL time.Duration
	audit   audit.Sink
	loc     *time.Location
	now     func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	locker slotlock.Locker,
	holdTTL time.Duration,
	audit audit.Sink,
	loc *time.Location,
) *CreateBooking {
	return &CreateBooking{
		repo:    repo,
		locker:  locker,
		holdTTL: holdTTL,
		audit:   audit,
		loc:     loc,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// Session
	// --------------------------------------------------
	if in.UserID == "" {
		return nil, httperr.ErrBusiness("unauthenticated")
	}

	// --------------------------------------------------
	// Date / time in the shop timezone
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(uc.loc, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	_, service, err := lookup(ctx, uc.repo, in.BarberID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// The start must be one of the offered slots
	// --------------------------------------------------
	now := uc.now().In(uc.loc)
	if !start.After(now) {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	slots, err := freeSlots(ctx, uc.repo, in.BarberID, service, start, now)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(slots, availability.FormatClock(start)) {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// Short hold so concurrent requests for the same start fail fast
	// --------------------------------------------------
	release, ok, err := uc.locker.Acquire(ctx, slotlock.Key(in.BarberID, start), uc.holdTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire slot hold: %w", err)
	}
	if !ok {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeLocked).Inc()
		return nil, httperr.ErrBusiness("slot_locked")
	}
	defer release()

	// --------------------------------------------------
	// Persist with the transactional overlap check
	// --------------------------------------------------
	b := &models.Booking{
		UserID:    in.UserID,
		BarberID:  in.BarberID,
		ServiceID: service.ID,
		Date:      start,
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	if err := uc.repo.CreateBooking(ctx, b, duration); err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			uc.audit.Dispatch(audit.Event{
				UserID: &in.UserID,
				Action: "booking_conflict",
				Entity: "booking",
				Metadata: map[string]any{
					"barber_id":  in.BarberID,
					"service_id": in.ServiceID,
					"date":       start,
				},
			})
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"barber_id":  b.BarberID,
			"service_id": b.ServiceID,
			"date":       b.Date,
		},
	})

	return b, nil
}
