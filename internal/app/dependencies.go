package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"climacast.app/internal/adapters/database"
	"climacast.app/internal/adapters/external"
	"climacast.app/internal/adapters/infrastructure"
	"climacast.app/internal/config"
	"climacast.app/internal/core/geo"
	"climacast.app/internal/ports"
	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DependencyContainer wires process-wide, long-lived dependencies: the
// database handle, cache store, upstream client and metrics are created once
// and reused across requests (warm-start reuse).
type DependencyContainer struct {
	config *config.Config
	db     *gorm.DB
	ports  *ports.ApplicationPorts
	index  *geo.Index
}

func NewDependencyContainer(cfg *config.Config) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config: cfg,
	}

	if err := container.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := container.initializePorts(); err != nil {
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	if err := container.initializeIndex(); err != nil {
		return nil, fmt.Errorf("initialize geo index: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializeDatabase() error {
	slog.Info("Initializing database connection...")

	dsn := c.config.Database.GetDSN()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&database.LocationModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	c.db = db
	slog.Info("Database connection established successfully")
	return nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	var logger ports.Logger = &infrastructure.SlogLoggerAdapter{}
	metrics := infrastructure.NewPrometheusMetricsCollector()

	locationRepo := database.NewLocationRepositoryAdapter(c.db)

	clock := clockwork.NewRealClock()
	cacheFactory := external.NewCacheProviderFactory(clock)
	cacheProvider, err := cacheFactory.CreateCacheProvider(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("create cache provider: %w", err)
	}
	seriesCache := external.NewSeriesCacheAdapter(cacheProvider)

	upstreamClient := external.NewOpenMeteoClient(external.OpenMeteoClientParams{
		BaseURL: c.config.Upstream.BaseURL,
		Client: &http.Client{
			Timeout: time.Duration(c.config.Upstream.TimeoutSeconds) * time.Second,
		},
		Logger: logger,
	})

	forecastConfig := c.forecastPortConfig()
	provider, err := external.NewCachedForecastProvider(external.CachedForecastProviderParams{
		Client: upstreamClient,
		Cache:  seriesCache,
		Config: forecastConfig,
		Retry: external.RetryConfig{
			MaxAttempts: c.config.Forecast.RetryMaxAttempts,
			BaseDelay:   time.Duration(c.config.Forecast.RetryBaseDelayMs) * time.Millisecond,
			Jitter:      true,
		},
		Clock:   clock,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return fmt.Errorf("create forecast provider: %w", err)
	}

	applicationPorts := &ports.ApplicationPorts{
		ForecastProvider: provider,
		ForecastCache:    seriesCache,
		Locations:        locationRepo,
		Logger:           logger,
		Metrics:          metrics,
	}
	if cacheMetrics, ok := cacheProvider.(ports.CacheMetrics); ok {
		applicationPorts.CacheMetrics = cacheMetrics
	}
	c.ports = applicationPorts

	slog.Info("Ports initialized successfully")
	return nil
}

// initializeIndex loads the municipality catalog once and builds the
// in-memory geo index over it
func (c *DependencyContainer) initializeIndex() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	points, err := c.ports.Locations.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load location catalog: %w", err)
	}

	c.index = geo.NewIndex(points)
	slog.Info("Geo index built", "points", c.index.Size())
	return nil
}

// ApplicationPorts returns the wired ports
func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// GeoIndex returns the in-memory point index
func (c *DependencyContainer) GeoIndex() *geo.Index {
	return c.index
}

// ForecastPortConfig exposes the forecast pipeline configuration
func (c *DependencyContainer) ForecastPortConfig() ports.ForecastConfig {
	return c.forecastPortConfig()
}

func (c *DependencyContainer) forecastPortConfig() ports.ForecastConfig {
	return ports.ForecastConfig{
		EnableCache:          c.config.Forecast.EnableCache,
		HourlyTTL:            time.Duration(c.config.Forecast.HourlyTTLMinutes) * time.Minute,
		DailyTTL:             time.Duration(c.config.Forecast.DailyTTLMinutes) * time.Minute,
		MaxConcurrentFetches: c.config.Forecast.MaxConcurrentFetches,
		BatchTimeout:         time.Duration(c.config.Forecast.BatchTimeoutSeconds) * time.Second,
	}
}
