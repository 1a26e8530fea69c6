package interfaces

import (
	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules.go -destination=mock/cache_rules.go

// CacheRules decides which requests the fetch handler intercepts and which
// network responses may be written to the cache
type CacheRules interface {
	// Intercepts returns false for requests that must pass through untouched
	Intercepts(req *models.FetchRequest) bool
	// Storable returns true if the response may be stored for the request
	Storable(req *models.FetchRequest, resp *models.Response) bool
}
