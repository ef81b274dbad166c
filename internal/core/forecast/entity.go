package forecast

import (
	"fmt"
	"time"
)

// Snapshot represents normalized current conditions derived from a raw
// series. It is computed fresh on every request and never mutated.
type Snapshot struct {
	CompositeCode     int
	Temperature       float64
	Humidity          float64
	WindSpeed         float64
	RainfallIntensity float64
	Timestamp         time.Time
}

// IsValid validates derived snapshot data
func (s *Snapshot) IsValid() error {
	if s.CompositeCode < MinCompositeCode || s.CompositeCode > MaxCompositeCode {
		return fmt.Errorf("composite code must be between %d and %d", MinCompositeCode, MaxCompositeCode)
	}
	if s.Temperature < -273.15 {
		return fmt.Errorf("temperature cannot be below absolute zero")
	}
	if s.Humidity < 0 || s.Humidity > 100 {
		return fmt.Errorf("humidity must be between 0 and 100")
	}
	if s.RainfallIntensity < 0 || s.RainfallIntensity > 100 {
		return fmt.Errorf("rainfall intensity must be between 0 and 100")
	}
	return nil
}

// String returns a string representation of the snapshot
func (s *Snapshot) String() string {
	return fmt.Sprintf("code=%d %.1f°C %.0f%% humidity, wind %.0f km/h, rain %.0f",
		s.CompositeCode, s.Temperature, s.Humidity, s.WindSpeed, s.RainfallIntensity)
}
