// Package metrics provides ports.MetricsCollector implementations for the
// ingestion and reporting pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/scrutineer/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks dataset ingestion health (rows and files) and
// pipeline stage latency so a run's data quality is observable without
// reading the diagnostic stream.
type PrometheusMetrics struct {
	rowsIngested       *prometheus.CounterVec
	rowsDropped        *prometheus.CounterVec
	filesRead          prometheus.Counter
	filesSkipped       prometheus.Counter
	unknownPartyLabels prometheus.Counter
	stageDuration      *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// all collectors in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		rowsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrutineer_rows_ingested_total",
				Help: "Total number of poll rows successfully parsed.",
			},
			[]string{"file"},
		),
		rowsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrutineer_rows_dropped_total",
				Help: "Total number of malformed poll rows dropped during ingestion.",
			},
			[]string{"file"},
		),
		filesRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scrutineer_files_read_total",
				Help: "Total number of dataset files fully ingested.",
			},
		),
		filesSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scrutineer_files_skipped_total",
				Help: "Total number of dataset files skipped due to read or header failures.",
			},
		),
		unknownPartyLabels: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scrutineer_unknown_party_labels_total",
				Help: "Total number of rows whose party label was bound to the catch-all variant.",
			},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrutineer_stage_duration_seconds",
				Help:    "Execution time of each pipeline stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordStageDuration observes a pipeline stage's execution time.
func (pm *PrometheusMetrics) RecordStageDuration(stage string, d time.Duration) {
	pm.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddRowsIngested counts rows successfully parsed from a file.
func (pm *PrometheusMetrics) AddRowsIngested(file string, n int) {
	pm.rowsIngested.WithLabelValues(file).Add(float64(n))
}

// AddRowsDropped counts malformed rows dropped from a file.
func (pm *PrometheusMetrics) AddRowsDropped(file string, n int) {
	pm.rowsDropped.WithLabelValues(file).Add(float64(n))
}

// IncFilesRead counts a fully ingested dataset file.
func (pm *PrometheusMetrics) IncFilesRead() { pm.filesRead.Inc() }

// IncFilesSkipped counts a skipped dataset file.
func (pm *PrometheusMetrics) IncFilesSkipped() { pm.filesSkipped.Inc() }

// IncUnknownPartyLabel counts a row bound to the catch-all party.
func (pm *PrometheusMetrics) IncUnknownPartyLabel() { pm.unknownPartyLabels.Inc() }
