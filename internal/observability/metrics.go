package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	switchStreams = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringctl",
			Subsystem: "aspace",
			Name:      "streams_total",
			Help:      "Command streams compiled and submitted, by kind.",
		},
		[]string{"device", "kind"},
	)
	switchStreamWords = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ringctl",
			Subsystem: "aspace",
			Name:      "stream_words",
			Help:      "Words emitted per compiled stream.",
			Buckets:   []float64{4, 8, 12, 16, 24, 32, 48, 64},
		},
		[]string{"device", "kind"},
	)
	switchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringctl",
			Subsystem: "aspace",
			Name:      "failures_total",
			Help:      "Switch requests that failed, by stage.",
		},
		[]string{"device", "stage"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ringctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ringctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(switchStreams, switchStreamWords, switchFailures, httpRequests, httpDuration)
	})
}

func RecordSwitchCompiled(device, kind string, words int) {
	RegisterMetrics()
	switchStreams.WithLabelValues(device, kind).Inc()
	switchStreamWords.WithLabelValues(device, kind).Observe(float64(words))
}

func RecordSwitchFailure(device, stage string) {
	RegisterMetrics()
	switchFailures.WithLabelValues(device, stage).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
