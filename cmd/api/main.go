package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/infra/slotlock"
	"github.com/BruksfildServices01/barber-booking/internal/jobs"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/storage"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func main() {

	cfg := config.Load()

	logger, err := logging.Setup(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	// --------------------------------------------------
	// Slot holds: redis when configured, process memory otherwise
	// --------------------------------------------------
	var (
		redisClient *redis.Client
		locker      slotlock.Locker = slotlock.NewMemoryLocker()
	)
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		locker = slotlock.NewRedisLocker(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, slot holds are per process")
	}

	var store storage.ObjectStore
	if cfg.StorageEnabled() {
		store = storage.NewS3Store(cfg)
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.AddAuditRetention(cfg.AuditRetentionCron, auditLogger, cfg.AuditRetention); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	scheduler.Start()

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      logger,
		Location: timezone.Location(cfg.Timezone),
		Redis:    redisClient,
		Locker:   locker,
		Store:    store,
		Audit:    auditDispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", cfg.Timezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	auditDispatcher.Close()
}
