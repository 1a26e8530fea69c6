package noop

import (
	"context"
	"testing"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

func TestNewNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	// Verify it implements the GenerationStore interface
	var _ interfaces.GenerationStore = cache

	if cache == nil {
		t.Errorf("NewNoOpCache() should return a *NoOpCache instance")
	}
}

func TestNoOpCache_Get(t *testing.T) {
	cache := NewNoOpCache()
	ctx := context.Background()

	testCases := []string{
		"http://localhost:3000/",
		"",
		"very-long-key-with-special-characters-!@#$%^&*()",
	}

	for _, key := range testCases {
		entry, found, err := cache.Get(ctx, "v1", key)
		if err != nil || found || entry != nil {
			t.Errorf("Get(%q) = (%v, %v, %v), want miss", key, entry, found, err)
		}
	}
}

func TestNoOpCache_SetDoesNotStore(t *testing.T) {
	cache := NewNoOpCache()
	ctx := context.Background()

	if err := cache.Open(ctx, "v1"); err != nil {
		t.Errorf("Open() error = %v", err)
	}
	if err := cache.Set(ctx, "v1", "k", &models.Response{Status: 200}); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if _, found, _ := cache.Get(ctx, "v1", "k"); found {
		t.Errorf("Get() after Set() should still miss")
	}

	names, err := cache.Generations(ctx)
	if err != nil || len(names) != 0 {
		t.Errorf("Generations() = (%v, %v), want empty", names, err)
	}
	if err := cache.DeleteGeneration(ctx, "v1"); err != nil {
		t.Errorf("DeleteGeneration() error = %v", err)
	}
}
