package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a struct using `validate` tags
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidLatitude checks latitude is within [-90, 90]
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude checks longitude is within [-180, 180]
func IsValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// IsValidStateCode validates a two-letter state code
func IsValidStateCode(code string) bool {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != 2 {
		return false
	}
	return strings.ToUpper(trimmed) == trimmed
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}
