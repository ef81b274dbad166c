package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		want      string
	}{
		{name: "Validation", errorType: ErrorTypeValidation, want: "VALIDATION_ERROR"},
		{name: "NotFound", errorType: ErrorTypeNotFound, want: "NOT_FOUND_ERROR"},
		{name: "NoData", errorType: ErrorTypeNoData, want: "NO_DATA_ERROR"},
		{name: "Upstream", errorType: ErrorTypeUpstream, want: "UPSTREAM_ERROR"},
		{name: "Timeout", errorType: ErrorTypeTimeout, want: "TIMEOUT_ERROR"},
		{name: "CacheWrite", errorType: ErrorTypeCacheWrite, want: "CACHE_WRITE_ERROR"},
		{name: "Database", errorType: ErrorTypeDatabase, want: "DATABASE_ERROR"},
		{name: "Configuration", errorType: ErrorTypeConfiguration, want: "CONFIGURATION_ERROR"},
		{name: "Unknown", errorType: ErrorTypeUnknown, want: "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errorType.String())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("radius must be positive")
	assert.Equal(t, "VALIDATION_ERROR: radius must be positive", err.Error())

	cause := fmt.Errorf("connection refused")
	wrapped := NewUpstreamError("failed to call upstream", cause)
	assert.Equal(t, "UPSTREAM_ERROR: failed to call upstream (caused by: connection refused)", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewUpstreamError("upstream failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	bare := NewTimeoutError("deadline elapsed")
	assert.Nil(t, bare.Unwrap())
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{name: "ValidationMatch", err: NewValidationError("bad input"), checker: IsValidationError, want: true},
		{name: "ValidationMismatch", err: NewNotFoundError("missing"), checker: IsValidationError, want: false},
		{name: "NotFoundMatch", err: NewNotFoundError("missing"), checker: IsNotFoundError, want: true},
		{name: "NoDataMatch", err: NewNoDataError("empty series"), checker: IsNoDataError, want: true},
		{name: "UpstreamMatch", err: NewUpstreamError("status 503", nil), checker: IsUpstreamError, want: true},
		{name: "TimeoutMatch", err: NewTimeoutError("deadline"), checker: IsTimeoutError, want: true},
		{name: "CacheWriteMatch", err: NewCacheWriteError("serialize", nil), checker: IsCacheWriteError, want: true},
		{name: "DatabaseMatch", err: NewDatabaseError("query", nil), checker: IsDatabaseError, want: true},
		{name: "ConfigurationMatch", err: NewConfigurationError("bad env", nil), checker: IsConfigurationError, want: true},
		{name: "PlainErrorNeverMatches", err: fmt.Errorf("plain"), checker: IsValidationError, want: false},
		{name: "NilNeverMatches", err: nil, checker: IsNotFoundError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}
