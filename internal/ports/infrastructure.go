package ports

import (
	"context"
	"time"
)

// ForecastConfig represents forecast pipeline configuration
type ForecastConfig struct {
	EnableCache          bool
	HourlyTTL            time.Duration
	DailyTTL             time.Duration
	MaxConcurrentFetches int
	BatchTimeout         time.Duration
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsCollector defines the contract for metrics collection
type MetricsCollector interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordUpstreamCall(ctx context.Context, provider string, success bool)
}
