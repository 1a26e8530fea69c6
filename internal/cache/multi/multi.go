package multi

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
)

// Ensure MultiCache implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*MultiCache)(nil)

// MultiCache implements a composite generation store over ordered levels.
// Reads fall through the levels in order; writes and deletions go to every level.
type MultiCache struct {
	caches            []interfaces.GenerationStore
	logger            *zap.Logger
	enablePropagation bool
}

// NewMultiCache creates a new MultiCache instance with provided cache levels
func NewMultiCache(caches []interfaces.GenerationStore, logger *zap.Logger, enablePropagation bool) *MultiCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
	}
}

// Open opens the generation in every level
func (mc *MultiCache) Open(ctx context.Context, generation string) error {
	var errs []error
	for _, cache := range mc.caches {
		if err := cache.Open(ctx, generation); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Get retrieves the entry from the first level that has it.
// A level that fails is skipped; the errors are returned only when no level had the entry.
func (mc *MultiCache) Get(ctx context.Context, generation, key string) (*models.Response, bool, error) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key))
		return nil, false, nil
	}

	done := metrics.TimeCacheOperation("get", "multi")
	defer done()

	var errs []error
	for i, cache := range mc.caches {
		entry, found, err := cache.Get(ctx, generation, key)
		if err != nil {
			mc.logger.Warn("Cache level get failed", zap.Int("level", i), zap.String("key", key), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if !found {
			continue
		}

		if mc.enablePropagation && i > 0 {
			mc.propagate(ctx, generation, key, entry, i)
		}
		return entry, true, nil
	}
	return nil, false, errors.Join(errs...)
}

// propagate copies a lower level hit into the levels above it
func (mc *MultiCache) propagate(ctx context.Context, generation, key string, entry *models.Response, hitLevel int) {
	for j := 0; j < hitLevel; j++ {
		if err := mc.caches[j].Set(ctx, generation, key, entry); err != nil {
			mc.logger.Warn("Failed to propagate cache entry",
				zap.Int("from_level", hitLevel),
				zap.Int("to_level", j),
				zap.String("key", key),
				zap.Error(err))
		}
	}
}

// Set stores the entry in every level
func (mc *MultiCache) Set(ctx context.Context, generation, key string, entry *models.Response) error {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return nil
	}

	done := metrics.TimeCacheOperation("set", "multi")
	defer done()

	var errs []error
	for _, cache := range mc.caches {
		if err := cache.Set(ctx, generation, key, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Generations returns the union of the generations known to every level
func (mc *MultiCache) Generations(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var errs []error
	for _, cache := range mc.caches {
		names, err := cache.Generations(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, errors.Join(errs...)
}

// DeleteGeneration removes the generation from every level
func (mc *MultiCache) DeleteGeneration(ctx context.Context, generation string) error {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for delete operation", zap.String("generation", generation))
		return nil
	}

	var errs []error
	for _, cache := range mc.caches {
		if err := cache.DeleteGeneration(ctx, generation); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetCacheCount returns the number of levels in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}
