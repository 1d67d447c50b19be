package telemetry

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := NewMetrics("")
	require.NoError(t, err)

	m.RunStarted("depth-first")
	m.Expanded("expanded")
	m.Expanded("expanded")
	m.Expanded("dead-end")
	m.Duplicate()
	m.FrontierSize(7)
	m.RunFinished("depth-first", "ok", 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsStarted.WithLabelValues("depth-first")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.expansions.WithLabelValues("expanded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.expansions.WithLabelValues("dead-end")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicates))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.frontier))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsFinished.WithLabelValues("depth-first", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RunStarted("depth-first")
		m.Expanded("done")
		m.Duplicate()
		m.FrontierSize(3)
		m.RunFinished("depth-first", "ok", time.Second)
	})
	assert.Nil(t, m.Registry())

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Empty(t, buf.String())
}

func TestMetrics_WriteText(t *testing.T) {
	m, err := NewMetrics("test")
	require.NoError(t, err)
	m.Expanded("done")

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE test_expansions_total counter")
	assert.Contains(t, out, `test_expansions_total{outcome="done"} 1`)
}

func TestMetrics_DefaultNamespace(t *testing.T) {
	m, err := NewMetrics("")
	require.NoError(t, err)
	m.Duplicate()
	m.FrontierSize(7)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "cantus_duplicate_lines_total 1")
	assert.Contains(t, out, "cantus_frontier_size 7")
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, err := NewMetrics("")
	require.NoError(t, err)
	b, err := NewMetrics("")
	require.NoError(t, err)

	a.Duplicate()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.duplicates))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.duplicates))
}
