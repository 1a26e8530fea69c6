package interfaces

import (
	"context"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher performs network requests. An error means the network could not
// be reached at all; HTTP error statuses are returned as responses.
type Fetcher interface {
	Fetch(ctx context.Context, req *models.FetchRequest) (*models.Response, error)
}
