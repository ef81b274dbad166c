package geo

import (
	"sort"

	"climacast.app/internal/ports"
	"climacast.app/pkg/errors"
)

// Neighbor pairs a catalog point with its distance from the query center
type Neighbor struct {
	Point      ports.Point
	DistanceKm float64
}

// NeighborResult is the outcome of a radius query, neighbors sorted
// ascending by distance
type NeighborResult struct {
	Center    ports.Point
	Neighbors []Neighbor
}

// Index is an in-memory point index over the municipality catalog.
// It is built once at startup and never mutated afterwards, so it is
// safe for concurrent readers.
type Index struct {
	byID    map[string]ports.Point
	byState map[string][]ports.Point
}

// NewIndex builds an index from the full catalog
func NewIndex(points []ports.Point) *Index {
	idx := &Index{
		byID:    make(map[string]ports.Point, len(points)),
		byState: make(map[string][]ports.Point),
	}
	for _, p := range points {
		idx.byID[p.ID] = p
		idx.byState[p.StateCode] = append(idx.byState[p.StateCode], p)
	}
	return idx
}

// Size returns the number of indexed points
func (idx *Index) Size() int {
	return len(idx.byID)
}

// GetByID resolves a point by its catalog id
func (idx *Index) GetByID(id string) (*ports.Point, error) {
	p, ok := idx.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("unknown point id: " + id)
	}
	return &p, nil
}

// FindNeighbors returns all points within radiusKm of the given center,
// sorted ascending by distance with ties broken by point id.
//
// Candidates are restricted to the center's state. States are geographically
// compact, so this trades a small false-negative risk right at state borders
// for skipping the scan of the full catalog. Known limitation, kept as is.
func (idx *Index) FindNeighbors(centerID string, radiusKm float64) (*NeighborResult, error) {
	if radiusKm <= 0 {
		return nil, errors.NewValidationError("radius must be positive")
	}

	center, err := idx.GetByID(centerID)
	if err != nil {
		return nil, err
	}

	candidates := idx.byState[center.StateCode]
	neighbors := make([]Neighbor, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == center.ID {
			continue
		}
		distance := Haversine(center.Latitude, center.Longitude, candidate.Latitude, candidate.Longitude)
		if distance <= radiusKm {
			neighbors = append(neighbors, Neighbor{Point: candidate, DistanceKm: distance})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].DistanceKm != neighbors[j].DistanceKm {
			return neighbors[i].DistanceKm < neighbors[j].DistanceKm
		}
		return neighbors[i].Point.ID < neighbors[j].Point.ID
	})

	return &NeighborResult{Center: *center, Neighbors: neighbors}, nil
}
