package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

// Field length bounds.
const (
	MaxISINLength         = 12
	MaxCurrencyCodeLength = 3
	MaxInstrumentName     = 255
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

// ValidateFloatString parses a string as a finite float64. An empty string is
// treated as an optional field and returns 0 without error; callers enforce
// required-ness with ValidateStringNotEmpty first.
func ValidateFloatString(s, fieldName string, allowNegative bool) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid number", ErrValidationFailed, fieldName, s)
	}
	// ParseFloat accepts "NaN" and "Inf"; those must never reach arithmetic.
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("%w: %s ('%s') is not a finite number", ErrValidationFailed, fieldName, s)
	}
	if !allowNegative && val < 0 {
		return 0, fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return val, nil
}

// ValidatePositiveFloatString parses a string as a finite float64 strictly
// greater than zero. Unlike ValidateFloatString, an empty string is an error.
func ValidatePositiveFloatString(s, fieldName string) (float64, error) {
	if err := ValidateStringNotEmpty(s, fieldName); err != nil {
		return 0, err
	}
	val, err := ValidateFloatString(s, fieldName, false)
	if err != nil {
		return 0, err
	}
	if val <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", ErrValidationFailed, fieldName)
	}
	return val, nil
}

// --- Specific Format Validators ---

var (
	isinRegex         = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidateISIN checks if a string is a plausible ISIN format. Empty is allowed;
// cash rows carry no ISIN.
func ValidateISIN(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxISINLength, "ISIN"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, isinRegex, "ISIN", "2 letters, 9 alphanumeric, 1 digit")
}

// ValidateCurrencyCode checks if currency code is 3 uppercase letters after
// normalization. Empty is allowed; the normalizer falls back to the base pass.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxCurrencyCodeLength, "Currency Code"); err != nil {
		return err
	}
	if !currencyCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Currency Code ('%s') is not in the expected format (3 uppercase letters)", ErrValidationFailed, s)
	}
	return nil
}
