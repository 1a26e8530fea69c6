package l2

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient is the go-redis backed KeyDbClient
type RedisKeyDbClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKeyDbClient connects to the KeyDB instance at keydbURL. The URL
// carries address, credentials, database and TLS (rediss://); timeouts and
// pool sizing come from the config.
func NewRedisKeyDbClient(keydbCfg *config.KeyDBConfig, keydbURL string, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}

	opts.DialTimeout = keydbCfg.Connection.ConnectTimeout
	opts.ReadTimeout = keydbCfg.GetReadTimeout()
	opts.WriteTimeout = keydbCfg.GetSendTimeout()
	opts.PoolSize = keydbCfg.Keepalive.PoolSize
	opts.IdleTimeout = keydbCfg.Keepalive.MaxIdleTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), keydbCfg.Connection.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Bool("tls", opts.TLSConfig != nil),
		zap.Int("pool_size", opts.PoolSize))

	return &RedisKeyDbClient{
		client: client,
		logger: logger,
	}, nil
}

func (r *RedisKeyDbClient) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	return r.client.HGet(ctx, key, field)
}

func (r *RedisKeyDbClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return r.client.Eval(ctx, script, keys, args...)
}

func (r *RedisKeyDbClient) SAdd(ctx context.Context, key, member string) *redis.IntCmd {
	return r.client.SAdd(ctx, key, member)
}

func (r *RedisKeyDbClient) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	return r.client.SMembers(ctx, key)
}

func (r *RedisKeyDbClient) SRem(ctx context.Context, key, member string) *redis.IntCmd {
	return r.client.SRem(ctx, key, member)
}

func (r *RedisKeyDbClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Close closes the client connection
func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
