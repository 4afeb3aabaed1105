package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTicker(t *testing.T) {
	valid := []string{"NVDA", "brk.b", " LMT ", "BF-B"}
	for _, s := range valid {
		assert.NoError(t, ValidateTicker(s), s)
	}

	invalid := []string{"", "   ", "1ABC", "TOO_LONG_TICKER", "A B"}
	for _, s := range invalid {
		err := ValidateTicker(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ErrValidationFailed))
	}
}

func TestValidateStateCode(t *testing.T) {
	assert.NoError(t, ValidateStateCode(""))
	assert.NoError(t, ValidateStateCode("ca"))
	assert.Error(t, ValidateStateCode("CAL"))
	assert.Error(t, ValidateStateCode("C1"))
}

func TestValidatePositiveFloat(t *testing.T) {
	assert.NoError(t, ValidatePositiveFloat(1.5, "multiplier"))
	assert.Error(t, ValidatePositiveFloat(0, "multiplier"))
	assert.Error(t, ValidatePositiveFloat(-1, "multiplier"))
	assert.Error(t, ValidatePositiveFloat(math.NaN(), "multiplier"))
	assert.Error(t, ValidatePositiveFloat(math.Inf(1), "multiplier"))
}

func TestCleanCellText(t *testing.T) {
	assert.Equal(t, "Nancy Pelosi", CleanCellText("  Nancy\n\t  Pelosi  "))
	assert.Equal(t, "NVDA:US", CleanCellText("NVDA\u200b:US"))
	assert.Equal(t, "", CleanCellText(" \n "))
}

func TestSanitizeText(t *testing.T) {
	out := SanitizeText(`<b>Smith</b><script>alert(1)</script>`)
	assert.NotContains(t, out, "<")
	assert.Contains(t, out, "Smith")
}

func TestValidateHTMLContent(t *testing.T) {
	ct, err := ValidateHTMLContent([]byte("<!DOCTYPE html><html><body><table></table></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "text/html", ct)

	_, err = ValidateHTMLContent(nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateHTMLContent([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateHTMLContent([]byte("%PDF-1.7\n" + strings.Repeat("x", 10)))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
