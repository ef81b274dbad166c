package ports

import "context"

// Point is an immutable municipality reference entry
type Point struct {
	ID        string
	Name      string
	StateCode string
	Latitude  float64
	Longitude float64
}

// LocationRepository is the read-only municipality catalog
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*Point, error)
	GetByState(ctx context.Context, stateCode string) ([]Point, error)
	GetAll(ctx context.Context) ([]Point, error)
}
