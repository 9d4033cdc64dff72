// Package metrics records extraction and analysis counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"fjacquet/statement-analyzer/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Document outcome labels.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder receives the outcome of each statement run.
type Recorder interface {
	RecordDocument(source, status string)
	RecordExtraction(stats models.ExtractionStats)
	RecordAnalysis(duration time.Duration, anomalies int)
}

// PrometheusRecorder implements Recorder on its own registry so several
// instances can coexist in tests.
type PrometheusRecorder struct {
	registry              *prometheus.Registry
	documentsProcessed    *prometheus.CounterVec
	transactionsExtracted prometheus.Counter
	linesSkipped          *prometheus.CounterVec
	fallbackPages         prometheus.Counter
	duplicatesDropped     prometheus.Counter
	analysisDuration      prometheus.Histogram
	anomaliesFlagged      prometheus.Counter
}

// NewPrometheusRecorder creates a recorder with a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		registry: reg,
		documentsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_documents_processed_total",
				Help: "Total number of statement documents processed",
			},
			[]string{"source", "status"},
		),
		transactionsExtracted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_transactions_extracted_total",
				Help: "Total number of transactions extracted",
			},
		),
		linesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_lines_skipped_total",
				Help: "Rows and lines dropped during extraction, by reason",
			},
			[]string{"reason"},
		),
		fallbackPages: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_fallback_pages_total",
				Help: "Pages read by the text fallback after the table strategy found nothing",
			},
		),
		duplicatesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_duplicates_dropped_total",
				Help: "Transactions removed by deduplication",
			},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "statement_analysis_duration_milliseconds",
				Help:    "Analytics run duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		anomaliesFlagged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_anomalies_flagged_total",
				Help: "Total number of anomaly flags raised",
			},
		),
	}
}

func (m *PrometheusRecorder) RecordDocument(source, status string) {
	m.documentsProcessed.WithLabelValues(source, status).Inc()
}

func (m *PrometheusRecorder) RecordExtraction(stats models.ExtractionStats) {
	m.transactionsExtracted.Add(float64(stats.Extracted))
	m.fallbackPages.Add(float64(stats.FallbackPages))
	m.duplicatesDropped.Add(float64(stats.Duplicates))
	for reason, n := range stats.SkippedByReason {
		m.linesSkipped.WithLabelValues(reason).Add(float64(n))
	}
}

func (m *PrometheusRecorder) RecordAnalysis(duration time.Duration, anomalies int) {
	m.analysisDuration.Observe(float64(duration.Milliseconds()))
	m.anomaliesFlagged.Add(float64(anomalies))
}

// Registry exposes the underlying registry.
func (m *PrometheusRecorder) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordDocument(string, string) {}

func (NopRecorder) RecordExtraction(models.ExtractionStats) {}

func (NopRecorder) RecordAnalysis(time.Duration, int) {}

// OrNop returns r, or a NopRecorder when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}
