package alerts

import (
	"fmt"
	"time"
)

// Type identifies the alert category
type Type string

const (
	TypeRain       Type = "RAIN"
	TypeStorm      Type = "STORM"
	TypeWind       Type = "WIND"
	TypeVisibility Type = "VISIBILITY"
	TypeCold       Type = "COLD"
	TypeSnow       Type = "SNOW"
	TypeUV         Type = "UV"
	TypeTempTrend  Type = "TEMP_TREND"
)

// Severity ranks alert urgency
type Severity int

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityExtreme
)

// String returns the string representation of severity
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityModerate:
		return "MODERATE"
	case SeverityHigh:
		return "HIGH"
	case SeverityExtreme:
		return "EXTREME"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON responses
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LOW":
		*s = SeverityLow
	case "MODERATE":
		*s = SeverityModerate
	case "HIGH":
		*s = SeverityHigh
	case "EXTREME":
		*s = SeverityExtreme
	default:
		return fmt.Errorf("unknown severity: %s", text)
	}
	return nil
}

// Alert is one weather warning over a half-open time span [StartsAt, EndsAt)
type Alert struct {
	Type     Type      `json:"type"`
	Severity Severity  `json:"severity"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Message  string    `json:"message"`
}

// Overlaps reports whether two half-open spans intersect
func (a Alert) Overlaps(other Alert) bool {
	return a.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(a.EndsAt)
}

// String returns a string representation of the alert
func (a Alert) String() string {
	return fmt.Sprintf("[%s/%s] %s → %s: %s",
		a.Type, a.Severity, a.StartsAt.Format(time.RFC3339), a.EndsAt.Format(time.RFC3339), a.Message)
}
