package observability

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewCLILogger_WarnByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCLILogger(&buf, false)

	logger.Info("table loaded", "dataset", "sensor")
	assert.Empty(t, buf.String())

	logger.Warn("dropped rows", "dropped", 2)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "dropped=2")
}

func TestNewCLILogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCLILogger(&buf, true)

	logger.Debug("view built", "dataset", "sensor")

	assert.Contains(t, buf.String(), "dataset=sensor")
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsDropped.WithLabelValues("sensor").Add(3)
	m.ViewCache.WithLabelValues("hit").Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(m.RowsDropped.WithLabelValues("sensor")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ViewCache.WithLabelValues("hit")), 0)
}
