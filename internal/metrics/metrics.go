// Package metrics holds the Prometheus collectors for snapshot refreshes,
// view pipelines and cache lookups.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trends"

var (
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Snapshot refreshes by source and outcome",
		},
		[]string{"source", "status"},
	)

	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of snapshot refreshes in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	SnapshotRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Rows in the current trend snapshot",
		},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "View pipeline runs by view and outcome",
		},
		[]string{"view", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Redis cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRefresh records one refresh attempt and, on success, the new snapshot size.
func RecordRefresh(source string, seconds float64, records int, err error) {
	RefreshTotal.WithLabelValues(source, status(err)).Inc()
	RefreshDuration.WithLabelValues(source).Observe(seconds)
	if err == nil {
		SnapshotRecords.Set(float64(records))
	}
}

func RecordPipeline(view string, err error) {
	PipelineRuns.WithLabelValues(view, status(err)).Inc()
}

func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(kind, result).Inc()
}
