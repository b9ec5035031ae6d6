package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthRejectionCounter(t *testing.T) {
	m := GetMonitor("/metrics")
	assert.Same(t, m, GetMonitor("/metrics"), "monitor is shared and the counter registered once")

	metric := m.GetMetric(authRejectedMetric)
	assert.Equal(t, authRejectedMetric, metric.Name)
	assert.NoError(t, metric.Inc([]string{"expired"}))

	assert.NotPanics(t, func() { RecordAuthRejection("missing_token") })
}
