package httpserver

import (
	"context"
	"encoding/json"

	"go-offline-worker/internal/models"
	"go-offline-worker/internal/worker"
)

// Cache status values reported in the X-Worker-Cache header
const (
	HeaderCacheStatus = "X-Worker-Cache"

	CacheStatusHit      = "HIT"
	CacheStatusMiss     = "MISS"
	CacheStatusFallback = "FALLBACK"
	CacheStatusBypass   = "BYPASS"
)

// Worker is the event surface the server dispatches to
type Worker interface {
	worker.EventHandlers
	Version() string
	State() worker.State
	Generations(ctx context.Context) ([]string, error)
}

// Queue accepts and lists deferred writes
type Queue interface {
	Enqueue(ctx context.Context, payload json.RawMessage) (*models.DeferredWrite, error)
	Pending(ctx context.Context) ([]*models.DeferredWrite, error)
}

// NotificationLog lists the notifications shown so far
type NotificationLog interface {
	List() []*models.Notification
}

// ClickRequest is the body of a notification click event
type ClickRequest struct {
	Action string `json:"action"`
}

// GenerationsResponse lists the cache generations
type GenerationsResponse struct {
	Current     string   `json:"current"`
	Generations []string `json:"generations"`
}

// QueueResponse lists the pending deferred writes
type QueueResponse struct {
	Pending []*models.DeferredWrite `json:"pending"`
}

// HealthResponse reports the worker status
type HealthResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	State   worker.State `json:"state"`
}
