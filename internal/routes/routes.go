package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/infra/slotlock"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Deps are the process-wide singletons the routes need. Redis and Store may
// be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Location *time.Location
	Redis    *redis.Client
	Locker   slotlock.Locker
	Store    storage.ObjectStore
	Audit    audit.Sink
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		logging.Middleware(d.Log),
		metrics.Middleware(),
		middleware.CORSMiddleware(d.Config.CORSAllowedOrigins),
	)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	getAvailabilityUC := ucBooking.NewGetAvailability(bookingRepo, d.Location)
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		d.Locker,
		d.Config.SlotHold,
		d.Audit,
		d.Location,
	)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, d.Audit)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	listAgendaUC := ucBooking.NewListAgenda(bookingRepo, d.Location)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Log)
	meHandler := handlers.NewMeHandler(d.DB)
	barberHandler := handlers.NewBarberHandler(d.DB, d.Store, d.Audit, d.Log)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Log)
	businessHoursHandler := handlers.NewBusinessHoursHandler(d.DB, d.Audit, d.Log)
	clientHandler := handlers.NewClientHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Location)

	bookingHandler := handlers.NewBookingHandler(
		getAvailabilityUC,
		createBookingUC,
		cancelBookingUC,
		listBookingsUC,
		listAgendaUC,
		d.Log,
	)

	healthHandler := handlers.NewHealthHandler(healthChecks(d))

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CATALOG (public)
		// ------------------------------
		api.GET("/barbers", barberHandler.List)
		api.GET("/barbers/:id", barberHandler.Get)
		api.GET("/barbers/:id/availability", bookingHandler.Availability)
		api.GET("/services", serviceHandler.List)

		// ------------------------------
		// CLIENT AREA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.List)
			secured.DELETE("/me/bookings/:id", bookingHandler.Cancel)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(d.Config), middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/barbers", barberHandler.Create)
			admin.POST("/barbers/:id/services", serviceHandler.Create)
			admin.PUT("/barbers/:id/business-hours", businessHoursHandler.Update)
			admin.POST("/barbers/:id/photo", barberHandler.UploadPhoto)
			admin.GET("/barbers/:id/bookings", bookingHandler.Agenda)

			admin.PATCH("/services/:id", serviceHandler.Update)

			admin.GET("/clients", clientHandler.List)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

func healthChecks(d Deps) map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}

	return checks
}
