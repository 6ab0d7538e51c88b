package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// Fixture is a barber with two services and a monday..saturday schedule.
type Fixture struct {
	User   models.User
	Admin  models.User
	Barber models.Barber
	Cut    models.Service
	Beard  models.Service
}

func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		User:   models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleClient},
		Admin:  models.User{Name: "Root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin},
		Barber: models.Barber{Name: "Carlos"},
	}
	mustCreate(t, db, &f.User)
	mustCreate(t, db, &f.Admin)
	mustCreate(t, db, &f.Barber)

	f.Cut = models.Service{BarberID: f.Barber.ID, Name: "Corte", DurationMin: 30, Price: 50}
	f.Beard = models.Service{BarberID: f.Barber.ID, Name: "Barba", DurationMin: 45, Price: 35}
	mustCreate(t, db, &f.Cut)
	mustCreate(t, db, &f.Beard)

	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		mustCreate(t, db, &models.BusinessHours{
			BarberID:       f.Barber.ID,
			DayOfWeek:      day,
			IsOpen:         true,
			StartTime:      "09:00",
			EndTime:        "18:00",
			LunchStartTime: "12:00",
			LunchEndTime:   "13:00",
		})
	}

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// BRT is a fixed -03:00 zone so tests do not depend on tzdata.
var BRT = time.FixedZone("BRT", -3*60*60)

// Monday returns 2026-10-19 h:m in BRT.
func Monday(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, BRT)
}
