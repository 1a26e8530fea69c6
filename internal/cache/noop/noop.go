package noop

import (
	"context"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

// Ensure NoOpCache implements interfaces.GenerationStore
var _ interfaces.GenerationStore = (*NoOpCache)(nil)

// NoOpCache is a no-operation generation store for disabled levels
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Open does nothing
func (n *NoOpCache) Open(ctx context.Context, generation string) error {
	return nil
}

// Get always returns cache miss
func (n *NoOpCache) Get(ctx context.Context, generation, key string) (*models.Response, bool, error) {
	return nil, false, nil
}

// Set does nothing
func (n *NoOpCache) Set(ctx context.Context, generation, key string, entry *models.Response) error {
	// No-op
	return nil
}

// Generations always returns no generations
func (n *NoOpCache) Generations(ctx context.Context) ([]string, error) {
	return nil, nil
}

// DeleteGeneration does nothing
func (n *NoOpCache) DeleteGeneration(ctx context.Context, generation string) error {
	return nil
}
