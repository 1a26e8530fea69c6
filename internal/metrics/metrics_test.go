package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestWorkerMetrics(t *testing.T) {
	// Metrics are package-level variables, automatically registered.

	t.Run("RecordFetch", func(t *testing.T) {
		before := counterValue(t, FetchOutcomes.WithLabelValues("cache_hit"))
		RecordFetch("cache_hit")
		if got := counterValue(t, FetchOutcomes.WithLabelValues("cache_hit")); got != before+1 {
			t.Errorf("FetchOutcomes = %v, want %v", got, before+1)
		}
	})

	t.Run("RecordInstallAsset", func(t *testing.T) {
		RecordInstallAsset("cached")
		RecordInstallAsset("failed")
	})

	t.Run("RecordGenerationsDeleted", func(t *testing.T) {
		before := counterValue(t, GenerationsDeleted)
		RecordGenerationsDeleted(2)
		if got := counterValue(t, GenerationsDeleted); got != before+2 {
			t.Errorf("GenerationsDeleted = %v, want %v", got, before+2)
		}
	})

	t.Run("RecordCacheError", func(t *testing.T) {
		// This should not panic
		RecordCacheError("l1", "encode")
	})

	t.Run("UpdateL1CacheCapacity", func(t *testing.T) {
		UpdateL1CacheCapacity(1000000, 500000)
		if got := gaugeValue(t, CacheUsed.WithLabelValues("l1")); got != 500000 {
			t.Errorf("CacheUsed = %v, want 500000", got)
		}
	})

	t.Run("UpdateCacheKeys", func(t *testing.T) {
		UpdateCacheKeys("l1", 1000)
		if got := gaugeValue(t, CacheKeys.WithLabelValues("l1")); got != 1000 {
			t.Errorf("CacheKeys = %v, want 1000", got)
		}
	})

	t.Run("TimeCacheOperation", func(t *testing.T) {
		timer := TimeCacheOperation("get", "l1")
		timer()
	})

	t.Run("RecordDelivery", func(t *testing.T) {
		RecordDelivery("delivered")
	})

	t.Run("UpdateQueueDepth", func(t *testing.T) {
		UpdateQueueDepth(3)
		if got := gaugeValue(t, QueueDepth); got != 3 {
			t.Errorf("QueueDepth = %v, want 3", got)
		}
	})

	t.Run("TimeDrain", func(t *testing.T) {
		done := TimeDrain()
		done("drained")
	})

	t.Run("RecordNotification", func(t *testing.T) {
		RecordNotification("shown")
	})
}
