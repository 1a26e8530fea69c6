package l2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
)

// setIfOpen writes the entry only while the generation is indexed, so a late
// write cannot bring a deleted generation back
const setIfOpen = `
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 0 then
	return -1
end
redis.call("HSET", KEYS[2], ARGV[2], ARGV[3])
return 1
`

// Ensure KeyDBCache implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*KeyDBCache)(nil)

// KeyDBCache implements the L2 generation store using Redis/KeyDB.
// Each generation is one hash keyed by request key; a set indexes the
// generation names.
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

func (kc *KeyDBCache) generationKey(generation string) string {
	return kc.config.KeyPrefix + "gen:" + generation
}

func (kc *KeyDBCache) indexKey() string {
	return kc.config.KeyPrefix + "generations"
}

// Open adds the generation to the index
func (kc *KeyDBCache) Open(ctx context.Context, generation string) error {
	if generation == "" {
		return errors.New("generation cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.SAdd(ctx, kc.indexKey(), generation).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("l2 open generation %s: %w", generation, err)
	}
	return nil
}

// Get retrieves a cached response from the generation hash
func (kc *KeyDBCache) Get(ctx context.Context, generation, key string) (*models.Response, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.HGet(ctx, kc.generationKey(generation), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		kc.logger.Error("L2 cache get error", zap.String("generation", generation), zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "upstream")
		return nil, false, fmt.Errorf("l2 get: %w", err)
	}

	var entry models.Response
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		kc.logger.Error("Failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "decode")
		return nil, false, nil
	}

	return &entry, true, nil
}

// Set stores a response snapshot in the generation hash
func (kc *KeyDBCache) Set(ctx context.Context, generation, key string, entry *models.Response) error {
	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheError("l2", "encode")
		return fmt.Errorf("failed to marshal L2 cache entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	keys := []string{kc.indexKey(), kc.generationKey(generation)}
	result, err := kc.client.Eval(ctx, setIfOpen, keys, generation, key, data).Int64()
	if err != nil {
		kc.logger.Error("Failed to set L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("l2 set: %w", err)
	}
	if result < 0 {
		return fmt.Errorf("l2 set %s: %w", generation, interfaces.ErrGenerationNotOpen)
	}
	return nil
}

// Generations lists the indexed generations in name order
func (kc *KeyDBCache) Generations(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	names, err := kc.client.SMembers(ctx, kc.indexKey()).Result()
	if err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return nil, fmt.Errorf("l2 list generations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteGeneration unindexes the generation, closing it to writes, then drops
// its hash. If the hash cannot be dropped the generation is indexed again so
// a later call can retry.
func (kc *KeyDBCache) DeleteGeneration(ctx context.Context, generation string) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.SRem(ctx, kc.indexKey(), generation).Err(); err != nil {
		metrics.RecordCacheError("l2", "delete")
		return fmt.Errorf("l2 unindex generation %s: %w", generation, err)
	}
	if err := kc.client.Del(ctx, kc.generationKey(generation)).Err(); err != nil {
		metrics.RecordCacheError("l2", "delete")
		if rerr := kc.client.SAdd(ctx, kc.indexKey(), generation).Err(); rerr != nil {
			kc.logger.Warn("Failed to re-index L2 generation", zap.String("generation", generation), zap.Error(rerr))
		}
		return fmt.Errorf("l2 delete generation %s: %w", generation, err)
	}
	return nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
