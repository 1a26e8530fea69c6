package interfaces

import (
	"context"

	"go-offline-worker/internal/models"
)

//go:generate mockgen -package=mock -source=notifier.go -destination=mock/notifier.go

// NotificationPresenter displays notifications produced by push events
type NotificationPresenter interface {
	Show(ctx context.Context, n *models.Notification) error
}

// WindowClients opens or focuses application windows
type WindowClients interface {
	// OpenOrFocus focuses a window already showing url, or opens a new one.
	// focused is true when an existing window was reused.
	OpenOrFocus(ctx context.Context, url string) (focused bool, err error)
}
