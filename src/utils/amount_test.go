package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"250K", 250_000},
		{"1M", 1_000_000},
		{"1m", 1_000_000},
		{"15k", 15_000},
		{"$1,500,000", 1_500_000},
		{" $ 1.5M ", 1_500_000},
		{"€2K", 2_000},
		{"1001", 1001},
		{"Undisclosed", 0},
		{"", 0},
		{"   ", 0},
		{"K", 0},
		{"N/A", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-5K", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmountValue(tt.in))
		})
	}
}

func TestParseAmountRange_LowerBoundOnly(t *testing.T) {
	assert.Equal(t, 100_000.0, ParseAmountRange("100K–250K"))
	assert.Equal(t, 1_000.0, ParseAmountRange("1K-15K"))
	assert.Equal(t, 1_000_000.0, ParseAmountRange("$1,000,000 - $5,000,000"))
	assert.Equal(t, 50_000.0, ParseAmountRange("50K"))
}

func TestParseAmountValue_OpenEndedBrackets(t *testing.T) {
	assert.Equal(t, 50_000_000.0, ParseAmountRange("50M+"))
	assert.Equal(t, 50_000_000.0, ParseAmountRange("> $50M"))
	assert.Equal(t, 50_000_000.0, ParseAmountRange("$50,000,000 +"))
	assert.Equal(t, 1_000.0, ParseAmountRange("< $1K"))
	assert.Equal(t, 50_000_000.0, ParseAmountUpper("50M+"))
	assert.Zero(t, ParseAmountValue("+"))
	assert.Zero(t, ParseAmountValue(">"))
}

func TestParseAmountRange_FallsBackToZero(t *testing.T) {
	assert.Zero(t, ParseAmountRange("Undisclosed"))
	assert.Zero(t, ParseAmountRange(""))
	assert.Zero(t, ParseAmountRange("–"))
	assert.Zero(t, ParseAmountRange("-250K"))
}

func TestParseAmountUpper(t *testing.T) {
	assert.Equal(t, 250_000.0, ParseAmountUpper("100K–250K"))
	assert.Equal(t, 15_000.0, ParseAmountUpper("1K - 15K"))
	assert.Equal(t, 50_000.0, ParseAmountUpper("50K"), "no separator falls back to the lower bound")
	assert.Equal(t, 1_000.0, ParseAmountUpper("1K–"), "empty upper falls back to the lower bound")
	assert.Zero(t, ParseAmountUpper("Undisclosed"))
}

func TestFormatCompactUSD(t *testing.T) {
	assert.Equal(t, "$1M", FormatCompactUSD(1_000_000))
	assert.Equal(t, "$1.5M", FormatCompactUSD(1_500_000))
	assert.Equal(t, "$250K", FormatCompactUSD(250_000))
	assert.Equal(t, "$1.5K", FormatCompactUSD(1_500))
	assert.Equal(t, "$500", FormatCompactUSD(500))
	assert.Equal(t, "$0", FormatCompactUSD(0))
}
