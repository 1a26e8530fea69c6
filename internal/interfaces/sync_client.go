package interfaces

import (
	"context"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=sync_client.go -destination=mock/sync_client.go

// SyncClient delivers deferred writes to the remote sync endpoint. A nil
// error is the endpoint's acknowledgement.
type SyncClient interface {
	Deliver(ctx context.Context, record *models.DeferredWrite) error
}
