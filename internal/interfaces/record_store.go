package interfaces

import (
	"context"
	"errors"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=record_store.go -destination=mock/record_store.go

// ErrRecordNotFound is returned by RecordStore.Delete for an unknown id
var ErrRecordNotFound = errors.New("record not found")

// RecordStore is the durable store of deferred write records
type RecordStore interface {
	Put(ctx context.Context, record *models.DeferredWrite) error
	// List returns every record in creation order
	List(ctx context.Context) ([]*models.DeferredWrite, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
