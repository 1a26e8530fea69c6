package interfaces

import (
	"context"
	"errors"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// ErrGenerationNotOpen is returned by Set for a generation that was never
// opened or has been deleted
var ErrGenerationNotOpen = errors.New("cache generation not open")

// GenerationStore holds cached responses grouped into named generations.
// A generation exists from Open until DeleteGeneration. Entries are never
// evicted on their own.
type GenerationStore interface {
	Open(ctx context.Context, generation string) error
	Get(ctx context.Context, generation, key string) (*models.Response, bool, error) // returns entry and found flag
	Set(ctx context.Context, generation, key string, entry *models.Response) error
	Generations(ctx context.Context) ([]string, error)
	DeleteGeneration(ctx context.Context, generation string) error
}
