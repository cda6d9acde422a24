package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout.Duration,
	}

	var owm *providers.OpenWeatherClient
	if cfg.OpenWeatherAPIKey != "" {
		opts := []providers.OpenWeatherOption{providers.RetryOption(cfg.UpstreamMaxRetries)}
		if cfg.OpenWeatherBaseURL != "" {
			opts = append(opts, providers.BaseURLOption(cfg.OpenWeatherBaseURL))
		}
		owm = providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, opts...)
	} else {
		sugar.Warn("OPENWEATHER_API_KEY is not set; weather requests will fail and locations come from sample data")
	}

	// Location lookups.
	var primary geo.Geocoder
	switch {
	case cfg.GeocoderProvider == "google" && cfg.GoogleGeocoderAPIKey != "":
		primary = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	case cfg.GeocoderProvider == "google":
		sugar.Warn("GOOGLE_GEOCODER_API_KEY is not set; serving sample locations")
	case owm != nil:
		primary = owm
	}

	geoOpts := []geo.Option{geo.WithLogger(sugar.Named("geo"))}
	var sweeper scheduler.Sweeper
	switch cfg.CacheBackend {
	case "memory":
		mem := store.NewMemoryCache(cfg.LookupCacheTTL.Duration, cfg.CacheMaxEntries)
		geoOpts = append(geoOpts, geo.WithCache(mem))
		sweeper = mem
	case "redis":
		rc := store.NewRedisCache(cfg.RedisAddress, cfg.LookupCacheTTL.Duration)
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			sugar.Warnw("redis unreachable; lookups will not be cached until it recovers", "address", cfg.RedisAddress, "error", err)
		}
		cancel()
		geoOpts = append(geoOpts, geo.WithCache(rc))
	}
	geoService := geo.NewService(primary, geoOpts...)

	// Weather fetches.
	var provider weather.Provider
	switch {
	case owm != nil:
		provider = owm
	case cfg.WeatherSampleFallback:
		sugar.Warn("serving sample weather data")
		provider = weather.SampleProvider{}
	}
	weatherService := weather.NewService(provider, sugar.Named("weather"))

	// Preferences.
	var prefsService *prefs.Service
	if cfg.PreferencesDB != "" {
		db, err := store.NewSQLitePreferences(cfg.PreferencesDB, sugar.Named("store"))
		if err != nil {
			sugar.Fatalw("failed to open preferences database", "path", cfg.PreferencesDB, "error", err)
		}
		defer db.Close()
		prefsService = prefs.NewService(db, sugar.Named("prefs"))
	}

	schedCfg := scheduler.Config{
		Sweeper:       sweeper,
		SweepInterval: cfg.CacheSweepInterval.Duration,
		PruneInterval: cfg.PreferencesPruneInterval.Duration,
		MaxAge:        cfg.PreferencesMaxAge.Duration,
	}
	if prefsService != nil {
		schedCfg.Pruner = prefsService
	}
	sched := scheduler.New(schedCfg, sugar.Named("scheduler"))
	if err := sched.Start(); err != nil {
		sugar.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2*cfg.HTTPTimeout.Duration + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler(sugar.Named("http")),
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowedOrigins}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Geo:         geoService,
		Weather:     weatherService,
		Preferences: prefsService,
		Logger:      sugar.Named("http"),
	})

	go func() {
		sugar.Infow("listening", "port", cfg.Port, "geocoder", geocoderName(geoService, cfg), "weather_configured", weatherService.Configured())
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorw("error during shutdown", "error", err)
	}
}

func geocoderName(s *geo.Service, cfg *config.AppConfig) string {
	if s.UsingSample() {
		return "sample"
	}
	return cfg.GeocoderProvider
}
