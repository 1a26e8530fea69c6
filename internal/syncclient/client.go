package syncclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

// HeaderRecordID carries the deferred write id with every delivery
const HeaderRecordID = "X-Deferred-Write-Id"

// ErrDeliveryRejected is returned when the endpoint answers with a non-2xx status
var ErrDeliveryRejected = errors.New("delivery rejected")

// Ensure Client implements interfaces.SyncClient
var _ interfaces.SyncClient = (*Client)(nil)

// Client posts deferred writes to the remote sync endpoint
type Client struct {
	httpClient *http.Client
	cfg        *config.SyncConfig
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a new Client instance
func New(cfg *config.SyncConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Deliver posts the record payload. Any 2xx status is an acknowledgement.
func (c *Client) Deliver(ctx context.Context, record *models.DeferredWrite) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(record.Payload))
	if err != nil {
		return fmt.Errorf("failed to build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRecordID, record.ID)

	if c.cfg.Auth.Secret != "" {
		token, err := GenerateToken(c.cfg.Auth.Secret, c.cfg.Auth.Issuer, record.ID, c.cfg.Auth.TokenTTL, c.now())
		if err != nil {
			return fmt.Errorf("failed to sign delivery token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery of %s failed: %w", record.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s answered %d", ErrDeliveryRejected, c.cfg.Endpoint, resp.StatusCode)
	}

	c.logger.Debug("Deferred write delivered", zap.String("id", record.ID), zap.Int("status", resp.StatusCode))
	return nil
}
