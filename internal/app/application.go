package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"climacast.app/internal/adapters/api"
	"climacast.app/internal/config"
	"climacast.app/internal/core/aggregate"
	"github.com/gin-gonic/gin"
)

type Application struct {
	config *config.Config

	// Use Cases
	forecastUseCase *aggregate.UseCase

	// Adapters
	httpAdapter *api.HTTPServerAdapter

	// Infrastructure
	container *DependencyContainer
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	container, err := NewDependencyContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	return NewApplicationWithDependencies(cfg, container)
}

// NewApplicationWithDependencies creates an application with provided dependencies (for testing)
func NewApplicationWithDependencies(cfg *config.Config, container *DependencyContainer) (*Application, error) {
	app := &Application{
		config:    cfg,
		container: container,
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	appPorts := a.container.ApplicationPorts()
	forecastUseCase, err := aggregate.NewUseCase(aggregate.UseCaseDependencies{
		Provider: appPorts.ForecastProvider,
		Config:   a.container.ForecastPortConfig(),
		Logger:   appPorts.Logger,
	})
	if err != nil {
		return fmt.Errorf("create forecast use case: %w", err)
	}
	a.forecastUseCase = forecastUseCase

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port: a.config.Server.Port,
		},
		Forecast:     a.forecastUseCase,
		Index:        a.container.GeoIndex(),
		CacheMetrics: a.container.ApplicationPorts().CacheMetrics,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpAdapter = httpAdapter

	slog.Info("Adapters initialized successfully")
	return nil
}

func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting application...")

	if err := a.httpAdapter.Start(ctx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.httpAdapter.Shutdown(ctx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// Router returns the Gin router for testing
func (a *Application) Router() *gin.Engine {
	return a.httpAdapter.Router()
}

// ForecastUseCase returns the forecast use case for testing
func (a *Application) ForecastUseCase() *aggregate.UseCase {
	return a.forecastUseCase
}
