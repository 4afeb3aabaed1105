package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapati23/morning-briefing/src/models"
)

func TestObserveParse(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveParse(models.ParseResult{
		Records: make([]models.TradeRecord, 3),
		Failures: []models.RowFailure{
			{Row: 1, Reason: models.SkipTooFewCells},
			{Row: 2, Reason: models.SkipTooFewCells},
			{Row: 3, Reason: models.SkipInvalidTradeDate},
		},
		Anomaly: models.AnomalyZeroOutput,
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsParsed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues("too_few_cells")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsSkipped.WithLabelValues("invalid_trade_date")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StructuralAnomalies.WithLabelValues("zero_output")))
}

func TestObserveFilterAndDigest(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveFilter(models.FilterReport{Input: 10, NoTicker: 1, Excluded: 2, BelowAmount: 3, BelowScore: 1, Passed: 3})
	m.ObserveDigest(models.SectionStatusOK, 2, 150*time.Millisecond)
	m.ObserveFetch("ok")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsFiltered.WithLabelValues("below_amount")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsFiltered.WithLabelValues("excluded")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DigestItems))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchAttempts.WithLabelValues("ok")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RowsParsed.Add(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "morning_briefing_congress_trades_rows_parsed_total 4")
}
