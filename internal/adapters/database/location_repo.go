package database

import (
	"context"

	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
	"gorm.io/gorm"
)

// LocationModel represents the database model for municipality points
type LocationModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	StateCode string `gorm:"index;not null"`
	Latitude  float64
	Longitude float64
}

func (LocationModel) TableName() string {
	return "locations"
}

// LocationRepositoryAdapter implements the LocationRepository port using GORM
type LocationRepositoryAdapter struct {
	db *gorm.DB
}

// NewLocationRepositoryAdapter creates a new location repository adapter
func NewLocationRepositoryAdapter(db *gorm.DB) *LocationRepositoryAdapter {
	return &LocationRepositoryAdapter{db: db}
}

// GetByID retrieves a point by its catalog id
func (r *LocationRepositoryAdapter) GetByID(ctx context.Context, id string) (*ports.Point, error) {
	if id == "" {
		return nil, errors.NewValidationError("point id cannot be empty")
	}

	var model LocationModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("point not found: " + id)
		}
		return nil, errors.NewDatabaseError("failed to find point by id", result.Error)
	}

	point := r.modelToPoint(&model)
	return &point, nil
}

// GetByState retrieves all points in a state
func (r *LocationRepositoryAdapter) GetByState(ctx context.Context, stateCode string) ([]ports.Point, error) {
	if stateCode == "" {
		return nil, errors.NewValidationError("state code cannot be empty")
	}

	var models []LocationModel
	result := r.db.WithContext(ctx).Where("state_code = ?", stateCode).Order("id").Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to find points by state", result.Error)
	}

	return r.modelsToPoints(models), nil
}

// GetAll retrieves the full catalog, used to build the in-memory index at
// startup
func (r *LocationRepositoryAdapter) GetAll(ctx context.Context) ([]ports.Point, error) {
	var models []LocationModel
	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to load location catalog", result.Error)
	}

	return r.modelsToPoints(models), nil
}

// SaveAll inserts catalog entries, used by seeding and tests
func (r *LocationRepositoryAdapter) SaveAll(ctx context.Context, points []ports.Point) error {
	if len(points) == 0 {
		return nil
	}

	models := make([]LocationModel, 0, len(points))
	for _, p := range points {
		models = append(models, LocationModel{
			ID:        p.ID,
			Name:      p.Name,
			StateCode: p.StateCode,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}

	if result := r.db.WithContext(ctx).Create(&models); result.Error != nil {
		return errors.NewDatabaseError("failed to save location catalog", result.Error)
	}
	return nil
}

func (r *LocationRepositoryAdapter) modelToPoint(model *LocationModel) ports.Point {
	return ports.Point{
		ID:        model.ID,
		Name:      model.Name,
		StateCode: model.StateCode,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
	}
}

func (r *LocationRepositoryAdapter) modelsToPoints(models []LocationModel) []ports.Point {
	points := make([]ports.Point, 0, len(models))
	for i := range models {
		points = append(points, r.modelToPoint(&models[i]))
	}
	return points
}
