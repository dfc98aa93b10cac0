package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Standard sink metrics. These are nil until registerSinkMetrics runs; the
// recording functions below treat nil as "metrics disabled".
var (
	recordsDelivered *prometheus.CounterVec
	recordsDropped   *prometheus.CounterVec
	queueDepth       *prometheus.GaugeVec
	deliveryDuration *prometheus.HistogramVec
)

// Drop reasons for the records_dropped_total counter.
const (
	ReasonQueueFull    = "queue_full"
	ReasonDelivery     = "delivery_error"
	ReasonNotConnected = "not_connected"
)

// registerSinkMetrics creates and registers the standard sink metrics.
// Called once from Init while holding registryMu.
func registerSinkMetrics(namespace string) error {
	recordsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "records_total",
			Help:      "Total number of log records delivered, by sink and level",
		},
		[]string{"sink", "level"},
	)

	recordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "records_dropped_total",
			Help:      "Total number of log records dropped by best-effort sinks",
		},
		[]string{"sink", "reason"},
	)

	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "queue_depth",
			Help:      "Current depth of a sink's background dispatch queue",
		},
		[]string{"sink"},
	)

	deliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "delivery_duration_seconds",
			Help:      "Remote delivery duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"sink"},
	)

	for _, c := range []prometheus.Collector{recordsDelivered, recordsDropped, queueDepth, deliveryDuration} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordDelivered increments the delivered-records counter for a sink.
func RecordDelivered(sink, level string) {
	if recordsDelivered == nil {
		return
	}
	recordsDelivered.WithLabelValues(sink, level).Inc()
}

// RecordDropped increments the dropped-records counter for a sink.
func RecordDropped(sink, reason string) {
	if recordsDropped == nil {
		return
	}
	recordsDropped.WithLabelValues(sink, reason).Inc()
}

// SetQueueDepth records the current dispatch queue depth for a sink.
func SetQueueDepth(sink string, depth int) {
	if queueDepth == nil {
		return
	}
	queueDepth.WithLabelValues(sink).Set(float64(depth))
}

// ObserveDeliveryDuration records how long one remote delivery took.
func ObserveDeliveryDuration(sink string, seconds float64) {
	if deliveryDuration == nil {
		return
	}
	deliveryDuration.WithLabelValues(sink).Observe(seconds)
}
