package notify

import (
	"context"
	"sync"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

// Ensure Outbox implements interfaces.NotificationPresenter
var _ interfaces.NotificationPresenter = (*Outbox)(nil)

// Outbox is an in-process presenter that keeps the most recent notifications
// so the host can read them back
type Outbox struct {
	mu       sync.RWMutex
	capacity int
	items    []*models.Notification
}

// NewOutbox creates an outbox holding at most capacity notifications
func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &Outbox{capacity: capacity}
}

// Show records the notification, dropping the oldest when full
func (o *Outbox) Show(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.items = append(o.items, n)
	if over := len(o.items) - o.capacity; over > 0 {
		o.items = append([]*models.Notification(nil), o.items[over:]...)
	}
	return nil
}

// List returns the shown notifications, oldest first
func (o *Outbox) List() []*models.Notification {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]*models.Notification(nil), o.items...)
}
