// Package api provides the HTTP adapters of the service. These adapters
// parse incoming requests and translate them to use case calls.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"climacast.app/internal/core/aggregate"
	"climacast.app/internal/core/geo"
	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port int
}

// ForecastUseCase is the aggregation pipeline the HTTP adapter depends on
type ForecastUseCase interface {
	Resolve(ctx context.Context, point ports.Point, atTime time.Time, window ports.Window) (*aggregate.Result, error)
	ResolveMany(ctx context.Context, points []ports.Point, atTime time.Time, window ports.Window) map[string]aggregate.Outcome
}

// GeoIndex answers point lookups and radius queries
type GeoIndex interface {
	GetByID(id string) (*ports.Point, error)
	FindNeighbors(centerID string, radiusKm float64) (*geo.NeighborResult, error)
}

// HTTPServerAdapter implements the HTTP server using Gin
type HTTPServerAdapter struct {
	router       *gin.Engine
	server       *http.Server
	config       ServerConfig
	forecast     ForecastUseCase
	index        GeoIndex
	cacheMetrics ports.CacheMetrics
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config       ServerConfig
	Forecast     ForecastUseCase
	Index        GeoIndex
	CacheMetrics ports.CacheMetrics
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	router := gin.Default()
	router.Use(requestIDMiddleware())

	server := &HTTPServerAdapter{
		router:       router,
		config:       opts.Config,
		forecast:     opts.Forecast,
		index:        opts.Index,
		cacheMetrics: opts.CacheMetrics,
	}

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.Forecast == nil {
		return errors.NewValidationError("forecast use case is required")
	}
	if opts.Index == nil {
		return errors.NewValidationError("geo index is required")
	}
	return nil
}

// requestIDMiddleware tags every request with a correlation id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/forecast/:id", s.getForecast)
		api.POST("/forecast/batch", s.getForecastBatch)
		api.GET("/neighbors/:id", s.getNeighbors)
		api.GET("/metrics", s.getCacheStats)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.health)
}

func (s *HTTPServerAdapter) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start begins the HTTP server
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server", "port", s.config.Port)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully
func (s *HTTPServerAdapter) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for tests
func (s *HTTPServerAdapter) Router() *gin.Engine {
	return s.router
}
