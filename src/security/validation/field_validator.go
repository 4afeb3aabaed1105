// backend/src/security/validation/field_validator.go
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = errors.New("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxTickerLength        = 10
	MaxStateCodeLength     = 2
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Numeric Validators ---

// ValidatePositiveFloat checks that v is finite and strictly greater than zero.
func ValidatePositiveFloat(v float64, fieldName string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive number, got %v", ErrValidationFailed, fieldName, v)
	}
	return nil
}

// --- Specific Format Validators ---

var (
	tickerRegex    = regexp.MustCompile(`^[A-Z][A-Z0-9.\-/]*$`)
	stateCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidateTicker checks that a symbol is a plausible exchange ticker after upper-casing.
func ValidateTicker(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if err := ValidateStringNotEmpty(trimmed, "ticker"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxTickerLength, "ticker"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, tickerRegex, "ticker", "upper-case letters, digits, '.', '-' or '/'")
}

// ValidateStateCode checks a two-letter jurisdiction code. Empty is allowed.
func ValidateStateCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxStateCodeLength, "state"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, stateCodeRegex, "state", "2 upper-case letters")
}
