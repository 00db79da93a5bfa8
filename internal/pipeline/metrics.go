package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors describing export runs.
type Metrics struct {
	Registry      *prometheus.Registry
	RowsRead      *prometheus.CounterVec
	InvalidURLs   *prometheus.CounterVec
	Entries       *prometheus.GaugeVec
	RunDuration   *prometheus.GaugeVec
	LastSuccess   *prometheus.GaugeVec
	FailuresTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	labels := []string{"source"}

	rowsRead := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "histrank_rows_read_total",
			Help: "History rows returned by the source query.",
		},
		labels,
	)
	invalidURLs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "histrank_invalid_urls_total",
			Help: "Rows skipped because their URL could not be parsed.",
		},
		labels,
	)
	entries := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "histrank_report_entries",
			Help: "Entries in the most recently written report.",
		},
		labels,
	)
	duration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "histrank_run_duration_seconds",
			Help: "Wall time of the most recent export run.",
		},
		labels,
	)
	lastSuccess := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "histrank_last_success_timestamp_seconds",
			Help: "Unix time of the last successful export.",
		},
		labels,
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "histrank_failures_total",
			Help: "Export runs that aborted with an error.",
		},
		labels,
	)

	registry.MustRegister(rowsRead, invalidURLs, entries, duration, lastSuccess, failures)

	return &Metrics{
		Registry:      registry,
		RowsRead:      rowsRead,
		InvalidURLs:   invalidURLs,
		Entries:       entries,
		RunDuration:   duration,
		LastSuccess:   lastSuccess,
		FailuresTotal: failures,
	}
}

// WriteTextfile dumps the registry in the Prometheus text format, suitable
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
