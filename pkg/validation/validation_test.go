package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotEmpty(t *testing.T) {
	assert.True(t, IsNotEmpty("kyiv"))
	assert.False(t, IsNotEmpty(""))
	assert.False(t, IsNotEmpty("   "))
}

func TestIsValidLatitude(t *testing.T) {
	assert.True(t, IsValidLatitude(0))
	assert.True(t, IsValidLatitude(-90))
	assert.True(t, IsValidLatitude(90))
	assert.False(t, IsValidLatitude(90.001))
	assert.False(t, IsValidLatitude(-120))
}

func TestIsValidLongitude(t *testing.T) {
	assert.True(t, IsValidLongitude(180))
	assert.True(t, IsValidLongitude(-180))
	assert.False(t, IsValidLongitude(181))
}

func TestIsValidStateCode(t *testing.T) {
	assert.True(t, IsValidStateCode("SP"))
	assert.True(t, IsValidStateCode(" RJ "))
	assert.False(t, IsValidStateCode("sp"))
	assert.False(t, IsValidStateCode("SPX"))
	assert.False(t, IsValidStateCode(""))
}

func TestTrimAndValidate(t *testing.T) {
	trimmed, ok := TrimAndValidate("  point-1  ")
	assert.True(t, ok)
	assert.Equal(t, "point-1", trimmed)

	_, ok = TrimAndValidate("   ")
	assert.False(t, ok)
}

func TestStruct(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	assert.NoError(t, Struct(payload{Name: "ok"}))
	assert.Error(t, Struct(payload{}))
}
