package interfaces

import (
	"net/url"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes requests into deterministic cache keys
type KeyBuilder interface {
	// For an intercepted request
	Build(req *models.FetchRequest) (string, error)
	// For a manifest or shell URL
	BuildURL(u *url.URL) (string, error)
}
