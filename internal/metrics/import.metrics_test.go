package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMetrics_Records(t *testing.T) {
	m, err := NewImportMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordRecords(RecordImported, 3)
	m.RecordRecords(RecordImported, 2)
	m.RecordRecords(RecordFailed, 1)
	m.RecordRecords(RecordSkipped, 0)

	assert.InDelta(t, 5.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(RecordImported)), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(RecordFailed)), 0.001)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues(RecordSkipped)), 0.001)
}

func TestImportMetrics_Batches(t *testing.T) {
	m, err := NewImportMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordBatch("process", StatusSuccess, 20*time.Millisecond)
	m.RecordBatch("process", StatusError, 5*time.Millisecond)
	m.RecordUpcUpdates(4)
	m.RecordLookupsCreated("artist", 2)
	m.RecordRun(StatusSuccess)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.batchesTotal.WithLabelValues("process", StatusSuccess)), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.batchesTotal.WithLabelValues("process", StatusError)), 0.001)
	assert.InDelta(t, 4.0, testutil.ToFloat64(m.upcUpdatesTotal), 0.001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.lookupCreatedTotal.WithLabelValues("artist")), 0.001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.importRunsTotal.WithLabelValues(StatusSuccess)), 0.001)
}

func TestImportMetrics_NilSafe(t *testing.T) {
	var m *ImportMetrics

	assert.NotPanics(t, func() {
		m.RecordRecords(RecordImported, 1)
		m.RecordBatch("process", StatusSuccess, time.Second)
		m.RecordLookupsCreated("genre", 1)
		m.RecordUpcUpdates(1)
		m.RecordRun(StatusError)
	})
}

func TestNewImportMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	_, err := NewImportMetrics(registry)
	require.NoError(t, err)

	_, err = NewImportMetrics(registry)
	assert.Error(t, err)
}
