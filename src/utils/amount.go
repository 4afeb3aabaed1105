// backend/src/utils/amount.go
package utils

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// rangeSeparators split a disclosure size like "100K–250K" into its bounds.
const rangeSeparators = "-–—"

// ParseAmountValue converts a human-readable dollar amount ("$250K", "1,500,000", "1.5m")
// into a number. A trailing K multiplies by 1,000 and M by 1,000,000. Open-ended brackets
// ("50M+", "> $50M") resolve to their stated bound. Anything that does not parse to a finite,
// non-negative number yields 0.
func ParseAmountValue(text string) float64 {
	// 1. Drop currency symbols, thousands separators and all whitespace.
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == ',', r == '$', r == '€', r == '£':
			return -1
		}
		return r
	}, text)
	cleaned = strings.TrimLeft(cleaned, "<>")
	cleaned = strings.TrimRight(cleaned, "+")
	if cleaned == "" {
		return 0
	}

	// 2. Magnitude suffix.
	multiplier := 1.0
	switch cleaned[len(cleaned)-1] {
	case 'k', 'K':
		multiplier = 1_000
		cleaned = cleaned[:len(cleaned)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		cleaned = cleaned[:len(cleaned)-1]
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	value *= multiplier
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

// ParseAmountRange returns the lower bound of a size range such as "100K–250K".
// Text without a separator is parsed as a single value, so "Undisclosed" and "" resolve to 0.
func ParseAmountRange(text string) float64 {
	lower, _ := splitRange(text)
	return ParseAmountValue(lower)
}

// ParseAmountUpper returns the upper bound of a size range, falling back to the lower bound
// when the range has no upper segment.
func ParseAmountUpper(text string) float64 {
	lower, upper := splitRange(text)
	if v := ParseAmountValue(upper); v > 0 {
		return v
	}
	return ParseAmountValue(lower)
}

func splitRange(text string) (string, string) {
	idx := strings.IndexAny(text, rangeSeparators)
	if idx < 0 {
		return text, ""
	}
	lower := text[:idx]
	rest := text[idx:]
	// Skip the (possibly multi-byte) separator rune.
	for i, r := range rest {
		if !strings.ContainsRune(rangeSeparators, r) {
			return lower, rest[i:]
		}
	}
	return lower, ""
}
