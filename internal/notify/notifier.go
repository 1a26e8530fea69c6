package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
)

// vibratePattern is the vibration used for every task notification
var vibratePattern = []int{100, 50, 100}

// Notifier turns push messages into notifications and handles their clicks
type Notifier struct {
	cfg       *config.PushConfig
	presenter interfaces.NotificationPresenter
	windows   interfaces.WindowClients
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifier creates a new Notifier instance
func NewNotifier(cfg *config.PushConfig, presenter interfaces.NotificationPresenter, windows interfaces.WindowClients, logger *zap.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		presenter: presenter,
		windows:   windows,
		logger:    logger,
		now:       time.Now,
	}
}

// Build constructs the notification for a push message. The push data text
// becomes the body; without data the default body is used.
func (n *Notifier) Build(data []byte) *models.Notification {
	body := n.cfg.DefaultBody
	if len(data) > 0 {
		body = string(data)
	}

	return &models.Notification{
		Title:   n.cfg.Title,
		Body:    body,
		Icon:    n.cfg.Icon,
		Badge:   n.cfg.Badge,
		Vibrate: append([]int(nil), vibratePattern...),
		Data: models.NotificationData{
			DateOfArrival: n.now().UnixMilli(),
			PrimaryKey:    uuid.NewString(),
		},
		Actions: []models.NotificationAction{
			{Action: models.NotificationActionOpen, Title: n.cfg.OpenTitle, Icon: n.cfg.Icon},
			{Action: models.NotificationActionClose, Title: n.cfg.CloseTitle},
		},
	}
}

// Push builds the notification for a push message and shows it
func (n *Notifier) Push(ctx context.Context, data []byte) (*models.Notification, error) {
	notification := n.Build(data)

	if err := n.presenter.Show(ctx, notification); err != nil {
		n.logger.Error("Failed to show notification", zap.Error(err))
		return notification, fmt.Errorf("failed to show notification: %w", err)
	}

	metrics.RecordNotification("shown")
	n.logger.Debug("Notification shown", zap.String("primary_key", notification.Data.PrimaryKey))
	return notification, nil
}

// Click closes the clicked notification. The open action also opens or
// focuses the application root; every other action only closes.
func (n *Notifier) Click(ctx context.Context, action string) (models.ClickResult, error) {
	result := models.ClickResult{Action: action, Closed: true}

	if action != models.NotificationActionOpen {
		metrics.RecordNotification("click_close")
		return result, nil
	}

	focused, err := n.windows.OpenOrFocus(ctx, n.cfg.RootURL)
	if err != nil {
		n.logger.Error("Failed to open application window", zap.String("url", n.cfg.RootURL), zap.Error(err))
		return result, fmt.Errorf("failed to open %s: %w", n.cfg.RootURL, err)
	}

	metrics.RecordNotification("click_open")
	result.Opened = n.cfg.RootURL
	result.Focused = focused
	return result, nil
}
