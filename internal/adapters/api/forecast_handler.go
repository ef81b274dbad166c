package api

import (
	"net/http"
	"strconv"
	"time"

	"climacast.app/internal/core/aggregate"
	"climacast.app/internal/core/alerts"
	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
	"climacast.app/pkg/validation"
	"github.com/gin-gonic/gin"
)

const maxNeighborRadiusKm = 1000

// snapshotResponse is the outward shape for one classified point.
// All timestamps are UTC; field names are lowerCamelCase.
type snapshotResponse struct {
	PointID           string         `json:"pointId"`
	Name              string         `json:"name"`
	StateCode         string         `json:"stateCode"`
	CompositeCode     int            `json:"compositeCode"`
	Temperature       float64        `json:"temperature"`
	Humidity          float64        `json:"humidity"`
	WindSpeed         float64        `json:"windSpeed"`
	RainfallIntensity float64        `json:"rainfallIntensity"`
	Timestamp         time.Time      `json:"timestamp"`
	Alerts            []alerts.Alert `json:"alerts"`
}

type batchRequest struct {
	PointIDs []string `json:"pointIds" binding:"required,min=1,max=50"`
	At       string   `json:"at"`
	Hours    int      `json:"hours" binding:"omitempty,min=1,max=168"`
	Days     int      `json:"days" binding:"omitempty,min=1,max=16"`
}

type batchEntry struct {
	Result *snapshotResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type neighborEntry struct {
	PointID    string  `json:"pointId"`
	Name       string  `json:"name"`
	StateCode  string  `json:"stateCode"`
	DistanceKm float64 `json:"distanceKm"`
}

type neighborsResponse struct {
	Center    string          `json:"center"`
	RadiusKm  float64         `json:"radiusKm"`
	Neighbors []neighborEntry `json:"neighbors"`
}

// getForecast handles GET /api/forecast/:id
func (s *HTTPServerAdapter) getForecast(c *gin.Context) {
	id, ok := validation.TrimAndValidate(c.Param("id"))
	if !ok {
		s.handleError(c, errors.NewValidationError("point id is required"))
		return
	}

	atTime, err := parseAt(c.Query("at"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	window, err := parseWindow(c.Query("hours"), c.Query("days"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	point, err := s.index.GetByID(id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	result, err := s.forecast.Resolve(c.Request.Context(), *point, atTime, window)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSnapshotResponse(result))
}

// getForecastBatch handles POST /api/forecast/batch. The response is a
// best-effort partial result with per-point error annotations.
func (s *HTTPServerAdapter) getForecastBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, errors.NewValidationError("invalid batch request: "+err.Error()))
		return
	}

	atTime, err := parseAt(req.At)
	if err != nil {
		s.handleError(c, err)
		return
	}

	points := make([]ports.Point, 0, len(req.PointIDs))
	entries := make(map[string]batchEntry, len(req.PointIDs))
	for _, id := range req.PointIDs {
		point, lookupErr := s.index.GetByID(id)
		if lookupErr != nil {
			entries[id] = batchEntry{Error: errorLabel(lookupErr)}
			continue
		}
		points = append(points, *point)
	}

	outcomes := s.forecast.ResolveMany(c.Request.Context(), points, atTime, ports.Window{Hours: req.Hours, Days: req.Days})
	for id, outcome := range outcomes {
		if outcome.Err != nil {
			entries[id] = batchEntry{Error: errorLabel(outcome.Err)}
			continue
		}
		entries[id] = batchEntry{Result: toSnapshotResponse(outcome.Result)}
	}

	c.JSON(http.StatusOK, gin.H{"results": entries})
}

// getNeighbors handles GET /api/neighbors/:id
func (s *HTTPServerAdapter) getNeighbors(c *gin.Context) {
	id, ok := validation.TrimAndValidate(c.Param("id"))
	if !ok {
		s.handleError(c, errors.NewValidationError("point id is required"))
		return
	}

	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "50"), 64)
	if err != nil || radius <= 0 || radius > maxNeighborRadiusKm {
		s.handleError(c, errors.NewValidationError("radius must be a number between 0 and 1000 km"))
		return
	}

	result, err := s.index.FindNeighbors(id, radius)
	if err != nil {
		s.handleError(c, err)
		return
	}

	neighbors := make([]neighborEntry, 0, len(result.Neighbors))
	for _, n := range result.Neighbors {
		neighbors = append(neighbors, neighborEntry{
			PointID:    n.Point.ID,
			Name:       n.Point.Name,
			StateCode:  n.Point.StateCode,
			DistanceKm: n.DistanceKm,
		})
	}

	c.JSON(http.StatusOK, neighborsResponse{
		Center:    result.Center.ID,
		RadiusKm:  radius,
		Neighbors: neighbors,
	})
}

func toSnapshotResponse(result *aggregate.Result) *snapshotResponse {
	alertList := result.Alerts
	if alertList == nil {
		alertList = []alerts.Alert{}
	}
	return &snapshotResponse{
		PointID:           result.Point.ID,
		Name:              result.Point.Name,
		StateCode:         result.Point.StateCode,
		CompositeCode:     result.Snapshot.CompositeCode,
		Temperature:       result.Snapshot.Temperature,
		Humidity:          result.Snapshot.Humidity,
		WindSpeed:         result.Snapshot.WindSpeed,
		RainfallIntensity: result.Snapshot.RainfallIntensity,
		Timestamp:         result.Snapshot.Timestamp.UTC(),
		Alerts:            alertList,
	}
}

// parseAt parses the optional requested time, defaulting to now (UTC)
func parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	atTime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError("at must be an RFC3339 timestamp")
	}
	return atTime.UTC(), nil
}

// parseWindow parses optional hours/days query parameters
func parseWindow(rawHours, rawDays string) (ports.Window, error) {
	var window ports.Window

	if rawHours != "" {
		hours, err := strconv.Atoi(rawHours)
		if err != nil || hours < 1 {
			return window, errors.NewValidationError("hours must be a positive integer")
		}
		window.Hours = hours
	}

	if rawDays != "" {
		days, err := strconv.Atoi(rawDays)
		if err != nil || days < 1 {
			return window, errors.NewValidationError("days must be a positive integer")
		}
		window.Days = days
	}

	return window, nil
}
