package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexfirm_api_go/config"
	"lexfirm_api_go/db"
	"lexfirm_api_go/handlers"
	"lexfirm_api_go/middleware"
	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
	"lexfirm_api_go/services/i18n"
	"lexfirm_api_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := config.SetupLogger(cfg.Environment)
	defer logger.Sync()

	time.Local = cfg.Location()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		zap.S().Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		zap.S().Fatalw("Failed to run migrations", "error", err)
	}

	if err := i18n.Load(); err != nil {
		zap.S().Fatalw("Failed to load translations", "error", err)
	}
	i18n.SetDefault(cfg.DefaultLocale)

	ctx := context.Background()
	repos := repositories.New(db.DB)
	if err := services.SeedAdminFromEnv(ctx, repos); err != nil {
		zap.S().Warnw("Admin seed failed", "error", err)
	}

	storage := services.NewStorage(ctx, cfg)
	h := handlers.New(cfg, repos, storage)

	// Background jobs
	scheduler := jobs.NewScheduler(time.Local)
	reminders := &jobs.HearingReminders{Repos: repos, Sender: services.NewMailer(cfg)}
	if err := scheduler.Add("hearing-reminders", cfg.ReminderCron, 5*time.Minute, reminders.Job); err != nil {
		zap.S().Fatalw("Invalid reminder schedule", "spec", cfg.ReminderCron, "error", err)
	}
	if err := scheduler.Add("login-monitor-cleanup", "@hourly", time.Minute, func(context.Context) error {
		h.Monitor.Cleanup()
		return nil
	}); err != nil {
		zap.S().Fatalw("Failed to schedule cleanup", "error", err)
	}
	scheduler.Start()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(cfg)

	// Middleware
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.Locale(cfg.IsProduction()))

	apiLimiter := middleware.NewAPIRateLimiter()
	defer apiLimiter.Stop()
	e.Use(apiLimiter.Middleware())

	loginLimiter := middleware.NewLoginRateLimiter()
	defer loginLimiter.Stop()
	h.RegisterRoutes(e, loginLimiter)

	// Start server
	go func() {
		zap.S().Infow("Server starting", "port", cfg.ServerPort, "environment", cfg.Environment, "storage", storage.Name())
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zap.S().Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("Server shutdown failed", "error", err)
	}
	scheduler.Stop(shutdownCtx)
}
