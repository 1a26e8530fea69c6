package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
)

// ErrInvalidPayload is returned by Enqueue for a payload that is not JSON
var ErrInvalidPayload = errors.New("payload must be valid JSON")

// Queue holds task mutations in a durable record store until the remote
// sync endpoint acknowledges them
type Queue struct {
	store  interfaces.RecordStore
	client interfaces.SyncClient
	logger *zap.Logger

	// drainMu keeps drains from overlapping so a record is not delivered twice
	// by concurrent triggers
	drainMu sync.Mutex
	now     func() time.Time
}

// New creates a new Queue instance
func New(store interfaces.RecordStore, client interfaces.SyncClient, logger *zap.Logger) *Queue {
	return &Queue{
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Enqueue persists a new deferred write with a time-ordered id
func (q *Queue) Enqueue(ctx context.Context, payload json.RawMessage) (*models.DeferredWrite, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, ErrInvalidPayload
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record id: %w", err)
	}

	record := &models.DeferredWrite{
		ID:        id.String(),
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: q.now().UTC(),
	}
	if err := q.store.Put(ctx, record); err != nil {
		q.logger.Error("Failed to persist deferred write", zap.String("id", record.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to persist deferred write: %w", err)
	}

	q.logger.Debug("Deferred write queued", zap.String("id", record.ID))
	q.refreshDepth(ctx)
	return record, nil
}

// Pending returns every queued record in creation order
func (q *Queue) Pending(ctx context.Context) ([]*models.DeferredWrite, error) {
	records, err := q.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending records: %w", err)
	}
	return records, nil
}

// Drain delivers every queued record in listing order. A delivered record is
// deleted; a failed one stays queued and the drain moves on to the next.
// If the initial read fails nothing is processed.
func (q *Queue) Drain(ctx context.Context) models.DrainReport {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	observe := metrics.TimeDrain()
	report := models.DrainReport{Delivered: []string{}}

	records, err := q.store.List(ctx)
	if err != nil {
		q.logger.Error("Failed to read deferred writes, aborting drain", zap.Error(err))
		report.Status = models.SyncStatusAborted
		report.Error = err.Error()
		observe(string(report.Status))
		return report
	}

	for _, record := range records {
		report.Attempted++

		if err := q.client.Deliver(ctx, record); err != nil {
			q.logger.Warn("Failed to deliver deferred write", zap.String("id", record.ID), zap.Error(err))
			metrics.RecordDelivery("deliver_failed")
			report.Failed = append(report.Failed, models.RecordFailure{
				ID:    record.ID,
				Stage: models.DrainStageDeliver,
				Error: err.Error(),
			})
			continue
		}

		if err := q.store.Delete(ctx, record.ID); err != nil && !errors.Is(err, interfaces.ErrRecordNotFound) {
			q.logger.Error("Delivered deferred write could not be removed", zap.String("id", record.ID), zap.Error(err))
			metrics.RecordDelivery("delete_failed")
			report.Failed = append(report.Failed, models.RecordFailure{
				ID:    record.ID,
				Stage: models.DrainStageDelete,
				Error: err.Error(),
			})
			continue
		}

		metrics.RecordDelivery("delivered")
		report.Delivered = append(report.Delivered, record.ID)
	}

	if len(report.Failed) == 0 {
		report.Status = models.SyncStatusDrained
	} else {
		report.Status = models.SyncStatusPartial
	}

	q.logger.Info("Drain finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("delivered", len(report.Delivered)),
		zap.Int("failed", len(report.Failed)))

	observe(string(report.Status))
	metrics.UpdateQueueDepth(len(records) - len(report.Delivered))
	return report
}

func (q *Queue) refreshDepth(ctx context.Context) {
	records, err := q.store.List(ctx)
	if err != nil {
		return
	}
	metrics.UpdateQueueDepth(len(records))
}

// Close closes the underlying record store
func (q *Queue) Close() error {
	return q.store.Close()
}
