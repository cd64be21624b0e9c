package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	toolAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bootctl",
			Subsystem: "toolcheck",
			Name:      "tool_available",
			Help:      "1 when the named tool resolves on the path, 0 otherwise.",
		},
		[]string{"tool", "category"},
	)
	probeResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bootctl",
			Subsystem: "toolcheck",
			Name:      "probe_results_total",
			Help:      "Functional probe outcomes.",
		},
		[]string{"probe", "working"},
	)
	verifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bootctl",
			Subsystem: "toolcheck",
			Name:      "verify_duration_seconds",
			Help:      "Duration of one full verification run.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"healthy"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bootctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bootctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			toolAvailable,
			probeResults,
			verifyDuration,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordToolPresence(tool, category string, present bool) {
	RegisterMetrics()
	value := 0.0
	if present {
		value = 1.0
	}
	toolAvailable.WithLabelValues(tool, category).Set(value)
}

func RecordProbe(probe string, working bool) {
	RegisterMetrics()
	probeResults.WithLabelValues(probe, strconv.FormatBool(working)).Inc()
}

func RecordVerifyDuration(healthy bool, duration time.Duration) {
	RegisterMetrics()
	verifyDuration.WithLabelValues(strconv.FormatBool(healthy)).Observe(duration.Seconds())
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
