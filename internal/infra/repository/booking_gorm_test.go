package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
)

func TestCreateBookingRejectsOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	// Beard: 10:00-10:45
	first := &models.Booking{UserID: f.User.ID, BarberID: f.Barber.ID, ServiceID: f.Beard.ID, Date: testutil.Monday(10, 0)}
	if err := repo.CreateBooking(ctx, first, 45*time.Minute); err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}

	tests := []struct {
		name     string
		start    time.Time
		conflict bool
	}{
		{name: "same start", start: testutil.Monday(10, 0), conflict: true},
		{name: "inside existing", start: testutil.Monday(10, 30), conflict: true},
		{name: "ends inside existing", start: testutil.Monday(9, 45), conflict: true},
		{name: "adjacent after", start: testutil.Monday(10, 45)},
		{name: "adjacent before", start: testutil.Monday(9, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &models.Booking{UserID: f.User.ID, BarberID: f.Barber.ID, ServiceID: f.Cut.ID, Date: tt.start}
			// A fresh transaction per case; rows from non-conflicting cases stay.
			err := repo.CreateBooking(ctx, b, 30*time.Minute)
			if tt.conflict {
				if !httperr.IsBusiness(err, "time_conflict") {
					t.Fatalf("CreateBooking() error = %v, want time_conflict", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBooking() error = %v", err)
			}
		})
	}
}

func TestCreateBookingConcurrentOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewBookingGormRepository(db)

	// One connection, so the second transaction waits for the first to commit.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	starts := []time.Time{testutil.Monday(10, 0), testutil.Monday(10, 15)}
	errs := make([]error, len(starts))

	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(i int, start time.Time) {
			defer wg.Done()
			b := &models.Booking{UserID: f.User.ID, BarberID: f.Barber.ID, ServiceID: f.Cut.ID, Date: start}
			errs[i] = repo.CreateBooking(context.Background(), b, 30*time.Minute)
		}(i, start)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case httperr.IsBusiness(err, "time_conflict"):
			conflicts++
		default:
			t.Fatalf("CreateBooking() unexpected error = %v", err)
		}
	}
	if created != 1 || conflicts != 1 {
		t.Fatalf("created=%d conflicts=%d, want 1 and 1", created, conflicts)
	}

	var count int64
	if err := db.Model(&models.Booking{}).Where("barber_id = ?", f.Barber.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("stored %d bookings, want 1", count)
	}
}

func TestCreateBookingUnknownBarber(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewBookingGormRepository(db)

	b := &models.Booking{UserID: f.User.ID, BarberID: "missing", ServiceID: f.Cut.ID, Date: testutil.Monday(10, 0)}
	if err := repo.CreateBooking(context.Background(), b, 30*time.Minute); !httperr.IsBusiness(err, "barber_not_found") {
		t.Fatalf("CreateBooking() error = %v, want barber_not_found", err)
	}
}

func TestListUserBookingsSplitsByNow(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	for _, start := range []time.Time{testutil.Monday(9, 0), testutil.Monday(14, 0), testutil.Monday(16, 0)} {
		b := &models.Booking{UserID: f.User.ID, BarberID: f.Barber.ID, ServiceID: f.Cut.ID, Date: start}
		if err := repo.CreateBooking(ctx, b, 30*time.Minute); err != nil {
			t.Fatalf("CreateBooking() error = %v", err)
		}
	}

	now := testutil.Monday(12, 0)

	upcoming, err := repo.ListUserBookings(ctx, f.User.ID, now, true)
	if err != nil {
		t.Fatalf("ListUserBookings(upcoming) error = %v", err)
	}
	if len(upcoming) != 2 || !upcoming[0].Date.Equal(testutil.Monday(14, 0)) {
		t.Fatalf("upcoming = %+v", upcoming)
	}
	if upcoming[0].Service.Name != "Corte" || upcoming[0].Barber.Name != "Carlos" {
		t.Errorf("associations not preloaded: %+v", upcoming[0])
	}

	past, err := repo.ListUserBookings(ctx, f.User.ID, now, false)
	if err != nil {
		t.Fatalf("ListUserBookings(past) error = %v", err)
	}
	if len(past) != 1 || !past[0].Date.Equal(testutil.Monday(9, 0)) {
		t.Fatalf("past = %+v", past)
	}

	if _, err := repo.GetBookingForUser(ctx, past[0].ID, f.Admin.ID); err == nil {
		t.Error("GetBookingForUser() returned another user's booking")
	}
}
