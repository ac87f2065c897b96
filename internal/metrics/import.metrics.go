// Package metrics exposes Prometheus metrics for catalog imports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	RecordImported = "imported"
	RecordSkipped  = "skipped"
	RecordFailed   = "failed"
)

// ImportMetrics records batch and record outcomes. A nil *ImportMetrics is
// valid and records nothing.
type ImportMetrics struct {
	recordsTotal       *prometheus.CounterVec
	batchesTotal       *prometheus.CounterVec
	batchDuration      *prometheus.HistogramVec
	lookupCreatedTotal *prometheus.CounterVec
	upcUpdatesTotal    prometheus.Counter
	importRunsTotal    *prometheus.CounterVec

	collectors []prometheus.Collector
}

func NewImportMetrics(registry prometheus.Registerer) (*ImportMetrics, error) {
	m := &ImportMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ImportMetrics) initMetrics() {
	m.recordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_records_total",
			Help: "Import records processed by outcome",
		},
		[]string{"status"}, // imported, skipped, failed
	)

	m.batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_batches_total",
			Help: "Import batches committed or rolled back",
		},
		[]string{"operation", "status"},
	)

	m.batchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_import_batch_duration_seconds",
			Help:    "Time taken to process one import batch",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		},
		[]string{"operation"},
	)

	m.lookupCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_lookup_created_total",
			Help: "Lookup rows created while resolving references",
		},
		[]string{"kind"},
	)

	m.upcUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_import_upc_updates_total",
			Help: "Release UPC values updated from datasets",
		},
	)

	m.importRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_runs_total",
			Help: "Full dataset import runs by outcome",
		},
		[]string{"status"},
	)

	m.collectors = []prometheus.Collector{
		m.recordsTotal,
		m.batchesTotal,
		m.batchDuration,
		m.lookupCreatedTotal,
		m.upcUpdatesTotal,
		m.importRunsTotal,
	}
}

// Describe implements the Collector interface
func (m *ImportMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ImportMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

func (m *ImportMetrics) RecordRecords(status string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.recordsTotal.WithLabelValues(status).Add(float64(count))
}

func (m *ImportMetrics) RecordBatch(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(operation, status).Inc()
	m.batchDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *ImportMetrics) RecordLookupsCreated(kind string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.lookupCreatedTotal.WithLabelValues(kind).Add(float64(count))
}

func (m *ImportMetrics) RecordUpcUpdates(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.upcUpdatesTotal.Add(float64(count))
}

func (m *ImportMetrics) RecordRun(status string) {
	if m == nil {
		return
	}
	m.importRunsTotal.WithLabelValues(status).Inc()
}
