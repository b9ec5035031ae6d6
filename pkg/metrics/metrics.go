package metrics

import (
	"sync"

	"github.com/penglongli/gin-metrics/ginmetrics"
	"go.uber.org/zap"
)

const authRejectedMetric = "auth_rejected_total"

var registerOnce sync.Once

func GetMonitor(path string) *ginmetrics.Monitor {
	m := ginmetrics.GetMonitor()
	// +optional set path
	m.SetMetricPath(path)
	// +optional set slow time
	m.SetSlowTime(1)

	// +optional set request duration, default {0.1, 0.3, 1.2, 5, 10}
	// used to p95, p99
	m.SetDuration([]float64{0.05, 0.1, 0.2, 0.3, 0.5, 1, 2, 5})

	registerOnce.Do(func() {
		err := m.AddMetric(&ginmetrics.Metric{
			Type:        ginmetrics.Counter,
			Name:        authRejectedMetric,
			Description: "requests rejected by the auth gate, by reason",
			Labels:      []string{"reason"},
		})
		if err != nil {
			zap.L().Warn("Failed to register metric", zap.String("metric", authRejectedMetric), zap.Error(err))
		}
	})

	return m
}

// RecordAuthRejection counts one request turned away by the auth gate.
func RecordAuthRejection(reason string) {
	if err := ginmetrics.GetMonitor().GetMetric(authRejectedMetric).Inc([]string{reason}); err != nil {
		zap.L().Debug("Failed to record auth rejection", zap.Error(err))
	}
}
