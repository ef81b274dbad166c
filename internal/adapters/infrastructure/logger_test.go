package infrastructure

import (
	"testing"

	"climacast.app/internal/ports"
	"github.com/stretchr/testify/assert"
)

func TestSlogLoggerAdapter_ImplementsPort(t *testing.T) {
	var _ ports.Logger = &SlogLoggerAdapter{}
}

func TestFieldArgs(t *testing.T) {
	args := fieldArgs([]ports.Field{
		ports.F("pointId", "kyiv"),
		ports.F("attempt", 2),
	})

	assert.Equal(t, []interface{}{"pointId", "kyiv", "attempt", 2}, args)
}

func TestSlogLoggerAdapter_DoesNotPanic(t *testing.T) {
	logger := &SlogLoggerAdapter{}

	assert.NotPanics(t, func() {
		logger.Debug("debug message", ports.F("k", "v"))
		logger.Info("info message")
		logger.Warn("warn message", ports.F("error", assert.AnError))
		logger.Error("error message")
	})
}
