package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
	"github.com/i474232898/weather-widget/internal/widget"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := providers.NewOpenWeatherFetcher(zl, httpClient, providers.OpenWeatherConfig{
		BaseURL:    cfg.OpenWeatherBaseURL,
		APIKey:     cfg.OpenWeatherAPIKey,
		Location:   cfg.Timezone,
		MaxRetries: cfg.HTTPMaxRetries,
	})

	notices := store.NewNoticeStore(cfg.NoticeMaxHistory, cfg.NoticeMaxAge)

	sched := scheduler.New(zl)
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := widget.New(newLocator(cfg, zl, httpClient), fetcher, sched, zl,
		widget.WithInterval(cfg.RefreshInterval),
		widget.WithFetchTimeout(cfg.FetchTimeout),
		widget.WithDefaultCoordinates(cfg.DefaultCoordinates),
		widget.WithNoticeSink(notices),
	)
	if err := ctrl.Start(ctx); err != nil {
		zl.Fatal("failed to start widget controller", zap.Error(err))
	}
	defer ctrl.Close()

	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.FetchTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-widget",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Controller: ctrl,
		Notices:    notices,
		Location:   cfg.Timezone,
	})

	go func() {
		zl.Info("http server listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Warn("error during shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Env == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func newLocator(cfg *config.AppConfig, zl *zap.Logger, client *http.Client) weather.Locator {
	switch cfg.LocationSource {
	case config.SourceStatic:
		return weather.StaticLocator{Coords: cfg.StaticCoordinates}
	case config.SourceGeocode:
		return providers.NewGeocodeLocator(zl, cfg.GeocoderAPIKey, cfg.LocationCity, cfg.LocationCountry)
	case config.SourceNone:
		return weather.UnavailableLocator{}
	default:
		return providers.NewIPLocator(zl, client, cfg.IPLocatorURL)
	}
}
