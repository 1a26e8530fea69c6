package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fetch outcomes (cache_hit, network_stored, shell_fallback, ...)
	FetchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_fetch_total",
			Help: "Total number of intercepted fetches by outcome",
		},
		[]string{"outcome"},
	)

	// Install population results per asset
	InstallAssets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_install_assets_total",
			Help: "Total number of manifest assets processed during install",
		},
		[]string{"result"}, // cached, failed, skipped
	)

	GenerationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worker_generations_deleted_total",
			Help: "Total number of stale cache generations deleted on activation",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of generation store errors",
		},
		[]string{"level", "kind"},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of generation store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"}, // only "l1"
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"}, // only "l1"
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of entries held by a cache level",
		},
		[]string{"level"},
	)

	// Deferred write deliveries by result
	SyncDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_deliveries_total",
			Help: "Total number of deferred write delivery attempts",
		},
		[]string{"result"}, // delivered, deliver_failed, delete_failed
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_queue_depth",
			Help: "Number of deferred writes waiting for delivery",
		},
	)

	DrainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_drain_duration_seconds",
			Help:    "Duration of queue drains",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification events",
		},
		[]string{"kind"}, // shown, click_open, click_close
	)
)

// RecordFetch records a fetch outcome
func RecordFetch(outcome string) {
	FetchOutcomes.WithLabelValues(outcome).Inc()
}

// RecordInstallAsset records the result of one manifest asset
func RecordInstallAsset(result string) {
	InstallAssets.WithLabelValues(result).Inc()
}

// RecordGenerationsDeleted records deleted generations
func RecordGenerationsDeleted(count int) {
	GenerationsDeleted.Add(float64(count))
}

// RecordCacheError records a generation store error
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// UpdateCacheKeys sets the number of entries held by a level
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// TimeCacheOperation returns a timer function for measuring a store operation
func TimeCacheOperation(operation, level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation, level))
	return func() {
		timer.ObserveDuration()
	}
}

// RecordDelivery records one delivery attempt result
func RecordDelivery(result string) {
	SyncDeliveries.WithLabelValues(result).Inc()
}

// UpdateQueueDepth sets the number of pending deferred writes
func UpdateQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// TimeDrain returns a function that observes the drain duration under the final status
func TimeDrain() func(status string) {
	timer := prometheus.NewTimer(nil)
	return func(status string) {
		DrainDuration.WithLabelValues(status).Observe(timer.ObserveDuration().Seconds())
	}
}

// RecordNotification records a notification event
func RecordNotification(kind string) {
	Notifications.WithLabelValues(kind).Inc()
}
