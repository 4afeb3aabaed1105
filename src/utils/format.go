package utils

import (
	"math"
	"strconv"
)

// RoundFloat rounds a float64 to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// FormatCompactUSD renders a dollar amount in the short form used by the digest:
// 1500 -> "$1.5K", 250000 -> "$250K", 1000000 -> "$1M".
func FormatCompactUSD(v float64) string {
	switch {
	case v >= 1_000_000:
		return "$" + strconv.FormatFloat(RoundFloat(v/1_000_000, 1), 'f', -1, 64) + "M"
	case v >= 1_000:
		return "$" + strconv.FormatFloat(RoundFloat(v/1_000, 1), 'f', -1, 64) + "K"
	default:
		return "$" + strconv.FormatFloat(RoundFloat(v, 0), 'f', -1, 64)
	}
}
