package notify

import (
	"context"
	"sync"

	"go-offline-worker/internal/interfaces"
)

// Ensure Windows implements interfaces.WindowClients
var _ interfaces.WindowClients = (*Windows)(nil)

// Windows tracks the application windows opened from notifications. A URL
// that is already open is focused instead of opened again.
type Windows struct {
	mu   sync.Mutex
	open []string
}

// NewWindows creates an empty window registry
func NewWindows() *Windows {
	return &Windows{}
}

// OpenOrFocus implements interfaces.WindowClients
func (w *Windows) OpenOrFocus(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, u := range w.open {
		if u == url {
			return true, nil
		}
	}
	w.open = append(w.open, url)
	return false, nil
}

// Open returns the URLs of the open windows
func (w *Windows) Open() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.open...)
}
