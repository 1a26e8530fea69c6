package interfaces

import (
	"context"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=keydb_client.go -destination=mock/keydb_client.go -package=mock

// KeyDbClient defines the interface for KeyDB/Redis client operations
type KeyDbClient interface {
	// HGet retrieves a hash field
	HGet(ctx context.Context, key, field string) *redis.StringCmd

	// Eval runs a Lua script atomically
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd

	// SAdd adds a member to a set
	SAdd(ctx context.Context, key, member string) *redis.IntCmd

	// SMembers lists the members of a set
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd

	// SRem removes a member from a set
	SRem(ctx context.Context, key, member string) *redis.IntCmd

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) *redis.IntCmd

	// Ping tests connectivity
	Ping(ctx context.Context) *redis.StatusCmd

	// Close closes the client connection
	Close() error
}
