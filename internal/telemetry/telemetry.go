package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "watchdog"

var (
	// Sampling metrics
	sampleCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Total number of signal samples by outcome",
		},
		[]string{"signal", "result"},
	)

	signalValueGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signal_value",
			Help:      "Most recent sampled value per signal",
		},
		[]string{"signal"},
	)

	// Alert metrics
	alertsFiredCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "Total number of alerts added to a batch",
		},
		[]string{"signal", "severity"},
	)

	alertsSuppressedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_suppressed_total",
			Help:      "Total number of alerts suppressed by the cooldown",
		},
		[]string{"signal"},
	)

	// Delivery metrics
	dispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of webhook deliveries by outcome",
		},
		[]string{"status"},
	)

	dispatchDurationHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of webhook deliveries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Loop metrics
	iterationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Total number of monitor loop iterations by outcome",
		},
		[]string{"result"},
	)
)

// RecordSample records a sampling attempt for signal. result is "ok" or "error".
func RecordSample(signal string, result string, value float64) {
	sampleCounter.WithLabelValues(signal, result).Inc()
	if result == "ok" {
		signalValueGauge.WithLabelValues(signal).Set(value)
	}
}

// RecordAlert records an alert that made it into a batch
func RecordAlert(signal string, severity string) {
	alertsFiredCounter.WithLabelValues(signal, severity).Inc()
}

// RecordSuppressed records an alert dropped by the cooldown gate
func RecordSuppressed(signal string) {
	alertsSuppressedCounter.WithLabelValues(signal).Inc()
}

// RecordDispatch records a webhook delivery
func RecordDispatch(status string, duration time.Duration) {
	dispatchCounter.WithLabelValues(status).Inc()
	if duration > 0 {
		dispatchDurationHistogram.Observe(duration.Seconds())
	}
}

// RecordIteration records a monitor loop iteration. result is "ok", "error" or "panic".
func RecordIteration(result string) {
	iterationCounter.WithLabelValues(result).Inc()
}
