package api

import (
	"errors"
	"net/http"
	"time"

	errorspkg "climacast.app/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError maps application error types to HTTP statuses
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	var statusCode int
	var message string

	switch appErr.Type {
	case errorspkg.ErrorTypeValidation:
		statusCode = http.StatusBadRequest
		message = appErr.Message
	case errorspkg.ErrorTypeNotFound:
		statusCode = http.StatusNotFound
		message = appErr.Message
	case errorspkg.ErrorTypeNoData:
		statusCode = http.StatusNotFound
		message = appErr.Message
	case errorspkg.ErrorTypeUpstream:
		statusCode = http.StatusServiceUnavailable
		message = "Upstream forecast source unavailable"
	case errorspkg.ErrorTypeTimeout:
		statusCode = http.StatusGatewayTimeout
		message = "Request timed out"
	case errorspkg.ErrorTypeDatabase:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	default:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, ErrorResponse{Error: message})
}

// cacheStatsResponse represents the GET /api/metrics response body
type cacheStatsResponse struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	TotalOps    int64   `json:"totalOps"`
	HitRatio    float64 `json:"hitRatio"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}

// getCacheStats handles GET /api/metrics requests
func (s *HTTPServerAdapter) getCacheStats(c *gin.Context) {
	if s.cacheMetrics == nil {
		s.handleError(c, errorspkg.NewNotFoundError("cache statistics are not available"))
		return
	}

	stats := s.cacheMetrics.GetStats()
	resp := cacheStatsResponse{
		Hits:     stats.Hits,
		Misses:   stats.Misses,
		TotalOps: stats.TotalOps,
		HitRatio: stats.HitRatio,
	}
	if !stats.LastUpdated.IsZero() {
		resp.LastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

// errorLabel converts a per-point error into its taxonomy label for batch
// response annotations
func errorLabel(err error) string {
	var appErr *errorspkg.AppError
	if errors.As(err, &appErr) {
		return appErr.Type.String()
	}
	return "UNKNOWN_ERROR"
}
