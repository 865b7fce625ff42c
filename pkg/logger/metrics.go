package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the scan pipeline.

var (
	ItemsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_items_evaluated_total",
			Help: "Total number of candidate items fully evaluated",
		},
	)

	ItemsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_items_accepted_total",
			Help: "Total number of items that passed every active filter",
		},
	)

	WindowRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_window_rejections_total",
			Help: "Window-level rejections (missing data or filter failure)",
		},
		[]string{"window"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "scanner_scan_duration_seconds",
			Help: "Duration of one full catalog scan in seconds",
		},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_fetch_errors_total",
			Help: "Upstream price API fetch failures by endpoint",
		},
		[]string{"endpoint"},
	)
)
