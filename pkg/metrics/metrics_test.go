package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// resetForTest swaps in a fresh registry and registers the sink metrics against it.
func resetForTest(t *testing.T) {
	t.Helper()

	registryMu.Lock()
	defer registryMu.Unlock()

	registry = prometheus.NewRegistry()
	if err := registerSinkMetrics("logward_test"); err != nil {
		t.Fatalf("registerSinkMetrics() error = %v", err)
	}
}

func gatherCount(t *testing.T, name string) int {
	t.Helper()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			total := 0
			for _, m := range mf.GetMetric() {
				if m.Counter != nil {
					total += int(m.Counter.GetValue())
				}
				if m.Gauge != nil {
					total += int(m.Gauge.GetValue())
				}
			}
			return total
		}
	}
	return 0
}

func TestRecordDelivered(t *testing.T) {
	resetForTest(t)

	RecordDelivered("console", "info")
	RecordDelivered("console", "debug")
	RecordDelivered("file", "info")

	if got := gatherCount(t, "logward_test_sink_records_total"); got != 3 {
		t.Errorf("records_total = %d, want 3", got)
	}
}

func TestRecordDropped(t *testing.T) {
	resetForTest(t)

	RecordDropped("elastic", ReasonQueueFull)
	RecordDropped("elastic", ReasonDelivery)

	if got := gatherCount(t, "logward_test_sink_records_dropped_total"); got != 2 {
		t.Errorf("records_dropped_total = %d, want 2", got)
	}
}

func TestSetQueueDepth(t *testing.T) {
	resetForTest(t)

	SetQueueDepth("elastic", 7)

	if got := gatherCount(t, "logward_test_sink_queue_depth"); got != 7 {
		t.Errorf("queue_depth = %d, want 7", got)
	}
}

// Recording before Init must be a safe no-op: the logging hot path never
// requires metrics to be configured.
func TestRecordingWithoutInit(t *testing.T) {
	registryMu.Lock()
	registry = nil
	recordsDelivered = nil
	recordsDropped = nil
	queueDepth = nil
	deliveryDuration = nil
	registryMu.Unlock()

	RecordDelivered("console", "info")
	RecordDropped("elastic", ReasonQueueFull)
	SetQueueDepth("elastic", 1)
	ObserveDeliveryDuration("elastic", 0.01)
}
