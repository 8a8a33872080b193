package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDrop(t *testing.T) {
	pm := GetPrometheusMetrics()
	before := testutil.ToFloat64(eventsDropped.WithLabelValues("point", "premature"))
	pm.RecordDrop("point", "premature")
	pm.RecordDrop("point", "premature")
	assert.Equal(t, before+2, testutil.ToFloat64(eventsDropped.WithLabelValues("point", "premature")))
}

func TestGauges(t *testing.T) {
	pm := GetPrometheusMetrics()
	pm.SetBackendConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(backendConnected))
	pm.SetBackendConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(backendConnected))

	pm.SetQueueDepth(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(queueDepth))
	pm.RecordHandleDuration("order", time.Millisecond)
}

func TestSingleton(t *testing.T) {
	assert.Same(t, GetPrometheusMetrics(), GetPrometheusMetrics())
}
