// Package metrics provides Prometheus metrics for the congressional trades pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chapati23/morning-briefing/src/models"
)

const namespace = "morning_briefing"

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Extraction metrics
	RowsParsed          prometheus.Counter
	RowsSkipped         *prometheus.CounterVec
	StructuralAnomalies *prometheus.CounterVec

	// Filter / digest metrics
	RecordsFiltered *prometheus.CounterVec
	DigestItems     prometheus.Counter

	// Pipeline metrics
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	FetchAttempts    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates a Metrics instance registered with reg. A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RowsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congress_trades",
			Name:      "rows_parsed_total",
			Help:      "Total number of disclosure rows turned into trade records",
		}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congress_trades",
			Name:      "rows_skipped_total",
			Help:      "Total number of disclosure rows skipped, by reason",
		}, []string{"reason"}),
		StructuralAnomalies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congress_trades",
			Name:      "structural_anomalies_total",
			Help:      "Total number of documents whose layout looked changed, by kind",
		}, []string{"kind"}),
		RecordsFiltered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congress_trades",
			Name:      "records_filtered_total",
			Help:      "Total number of trade records removed by the filter, by stage",
		}, []string{"reason"}),
		DigestItems: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congress_trades",
			Name:      "digest_items_total",
			Help:      "Total number of display items rendered",
		}),
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of digest builds, by resulting section status",
		}, []string{"status"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Duration of digest builds in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "attempts_total",
			Help:      "Total number of HTTP fetch attempts, by outcome",
		}, []string{"outcome"}),
		gatherer: reg,
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// --- Helper methods ---

// ObserveParse records the outcome of one extraction pass.
func (m *Metrics) ObserveParse(result models.ParseResult) {
	m.RowsParsed.Add(float64(len(result.Records)))
	for _, f := range result.Failures {
		m.RowsSkipped.WithLabelValues(string(f.Reason)).Inc()
	}
	if result.Anomaly != models.AnomalyNone {
		m.StructuralAnomalies.WithLabelValues(result.Anomaly).Inc()
	}
}

// ObserveFilter records how many records each filter stage dropped.
func (m *Metrics) ObserveFilter(report models.FilterReport) {
	m.RecordsFiltered.WithLabelValues("no_ticker").Add(float64(report.NoTicker))
	m.RecordsFiltered.WithLabelValues("excluded").Add(float64(report.Excluded))
	m.RecordsFiltered.WithLabelValues("below_amount").Add(float64(report.BelowAmount))
	m.RecordsFiltered.WithLabelValues("below_score").Add(float64(report.BelowScore))
}

// ObserveDigest records a finished digest build.
func (m *Metrics) ObserveDigest(status string, items int, duration time.Duration) {
	m.PipelineRuns.WithLabelValues(status).Inc()
	m.DigestItems.Add(float64(items))
	m.PipelineDuration.Observe(duration.Seconds())
}

// ObserveFetch records one HTTP attempt; outcome is "ok", "retry" or "error".
func (m *Metrics) ObserveFetch(outcome string) {
	m.FetchAttempts.WithLabelValues(outcome).Inc()
}
