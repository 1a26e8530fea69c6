package l1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
	"go-offline-worker/internal/scheduler"
)

// keySeparator joins generation and request key. It cannot appear in a URL.
const keySeparator = "\x00"

// Ensure BigCache implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*BigCache)(nil)

// BigCache implements the L1 generation store using BigCache
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler

	mu          sync.RWMutex
	generations map[string]struct{}
}

// Initial shard sizing; shards grow as needed
const (
	shards           = 16
	initialEntries   = 1024
	initialEntrySize = 4 * 1024
	neverExpire      = time.Duration(math.MaxInt64)
)

// NewBigCache creates a new BigCache instance. No entry expires and there is
// no size limit, so entries only leave through DeleteGeneration.
func NewBigCache(logger *zap.Logger) (*BigCache, error) {
	cfg := bigcache.DefaultConfig(neverExpire)
	cfg.CleanWindow = 0
	cfg.HardMaxCacheSize = 0
	cfg.Shards = shards
	cfg.MaxEntriesInWindow = initialEntries
	cfg.MaxEntrySize = initialEntrySize
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:       cache,
		logger:      logger,
		generations: make(map[string]struct{}),
	}

	return bc, nil
}

func compositeKey(generation, key string) string {
	return generation + keySeparator + key
}

// Open registers the generation
func (bc *BigCache) Open(ctx context.Context, generation string) error {
	if generation == "" {
		return errors.New("generation cannot be empty")
	}
	bc.mu.Lock()
	bc.generations[generation] = struct{}{}
	bc.mu.Unlock()
	return nil
}

// Get retrieves a cached response from the generation
func (bc *BigCache) Get(ctx context.Context, generation, key string) (*models.Response, bool, error) {
	ck := compositeKey(generation, key)
	data, err := bc.cache.Get(ck)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("l1", "upstream")
		return nil, false, fmt.Errorf("l1 get: %w", err)
	}

	var entry models.Response
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		_ = bc.cache.Delete(ck) // Remove corrupted entry
		return nil, false, nil
	}

	return &entry, true, nil
}

// Set stores a response snapshot in the generation
func (bc *BigCache) Set(ctx context.Context, generation, key string, entry *models.Response) error {
	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheError("l1", "encode")
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// Held across the write so DeleteGeneration sees every entry it must drop
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if _, ok := bc.generations[generation]; !ok {
		return fmt.Errorf("l1 set %s: %w", generation, interfaces.ErrGenerationNotOpen)
	}

	if err := bc.cache.Set(compositeKey(generation, key), data); err != nil {
		metrics.RecordCacheError("l1", "upstream")
		return fmt.Errorf("l1 set: %w", err)
	}
	return nil
}

// Generations lists the registered generations in name order
func (bc *BigCache) Generations(ctx context.Context) ([]string, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	names := make([]string, 0, len(bc.generations))
	for name := range bc.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteGeneration closes the generation to writes, then removes its entries.
// On failure the generation is reopened so a later call can retry.
func (bc *BigCache) DeleteGeneration(ctx context.Context, generation string) error {
	bc.mu.Lock()
	_, existed := bc.generations[generation]
	delete(bc.generations, generation)
	bc.mu.Unlock()

	prefix := generation + keySeparator

	var keys []string
	it := bc.cache.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			continue
		}
		if strings.HasPrefix(info.Key(), prefix) {
			keys = append(keys, info.Key())
		}
	}

	var errs []error
	for _, k := range keys {
		if err := bc.cache.Delete(k); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		if existed {
			bc.mu.Lock()
			bc.generations[generation] = struct{}{}
			bc.mu.Unlock()
		}
		metrics.RecordCacheError("l1", "delete")
		return fmt.Errorf("l1 delete generation %s: %w", generation, errors.Join(errs...))
	}

	bc.logger.Debug("Deleted L1 generation", zap.String("generation", generation), zap.Int("entries", len(keys)))
	return nil
}

// Close closes the cache
func (bc *BigCache) Close() error {
	// Stop metrics collection
	bc.StopMetricsCollection()

	return bc.cache.Close()
}

// GetStats returns cache statistics for metrics
func (bc *BigCache) GetStats() (capacity, used int64) {
	capacity = int64(bc.cache.Capacity())
	used = int64(bc.cache.Len())
	return capacity, used
}

// StartMetricsCollection starts periodic metrics collection
func (bc *BigCache) StartMetricsCollection(interval time.Duration) {
	bc.metricsScheduler = scheduler.New(interval, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

// StopMetricsCollection stops periodic metrics collection
func (bc *BigCache) StopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (bc *BigCache) updateMetrics() {
	capacity, used := bc.GetStats()
	metrics.UpdateL1CacheCapacity(capacity, used)
	metrics.UpdateCacheKeys("l1", used)
}
