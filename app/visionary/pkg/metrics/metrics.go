// Package metrics 流水线各阶段的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageDuration 各阶段耗时
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "visionary_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"stage"})

	// StageErrors 各阶段失败次数
	StageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visionary_stage_errors_total",
		Help: "Total pipeline stage failures",
	}, []string{"stage"})
)

// Observe 记录一次阶段执行
func Observe(stage string, start time.Time, err error) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		StageErrors.WithLabelValues(stage).Inc()
	}
}
