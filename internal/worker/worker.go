package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/models"
)

// EventHandlers is the lifecycle event surface the host dispatches to.
// Every handler returns a typed result instead of failing the host.
type EventHandlers interface {
	OnInstall(ctx context.Context) models.InstallReport
	OnActivate(ctx context.Context) models.ActivateReport
	OnFetch(ctx context.Context, req *models.FetchRequest) models.FetchResult
	OnSync(ctx context.Context, tag string) models.DrainReport
	OnPush(ctx context.Context, data []byte) models.PushResult
	OnNotificationClick(ctx context.Context, action string) models.ClickResult
}

// CacheManager owns one cache generation
type CacheManager interface {
	Version() string
	Install(ctx context.Context) models.InstallReport
	Activate(ctx context.Context) models.ActivateReport
	Fetch(ctx context.Context, req *models.FetchRequest) models.FetchResult
	Generations(ctx context.Context) ([]string, error)
}

// CacheFactory builds the cache manager for a worker configuration
type CacheFactory func(cfg config.WorkerConfig) (CacheManager, error)

// Drainer delivers queued deferred writes
type Drainer interface {
	Drain(ctx context.Context) models.DrainReport
}

// PushHandler handles push messages and notification clicks
type PushHandler interface {
	Push(ctx context.Context, data []byte) (*models.Notification, error)
	Click(ctx context.Context, action string) (models.ClickResult, error)
}

// State is the lifecycle state of the worker
type State string

const (
	StateParsed     State = "parsed"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
)

// ErrVersionUnchanged is returned by Update when the version did not change
var ErrVersionUnchanged = errors.New("worker version unchanged")

// Ensure Worker implements EventHandlers
var _ EventHandlers = (*Worker)(nil)

// Worker dispatches lifecycle events to the cache, the queue and the notifier
type Worker struct {
	newCache CacheFactory
	drainer  Drainer
	push     PushHandler
	logger   *zap.Logger

	// lifecycleMu serializes install, activate and update
	lifecycleMu sync.Mutex

	mu    sync.RWMutex
	cfg   config.WorkerConfig
	cache CacheManager
	state State
}

// New creates a worker from the configuration injected at start-up
func New(cfg config.WorkerConfig, newCache CacheFactory, drainer Drainer, push PushHandler, logger *zap.Logger) (*Worker, error) {
	cache, err := newCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache manager: %w", err)
	}

	return &Worker{
		newCache: newCache,
		drainer:  drainer,
		push:     push,
		logger:   logger,
		cfg:      cfg,
		cache:    cache,
		state:    StateParsed,
	}, nil
}

// State returns the current lifecycle state
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Version returns the current cache generation name
func (w *Worker) Version() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg.Version
}

// SyncTag returns the tag that triggers a queue drain
func (w *Worker) SyncTag() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg.SyncTag
}

// Origin returns the origin the worker controls
func (w *Worker) Origin() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg.Origin
}

// Generations lists the cache generations held by the store
func (w *Worker) Generations(ctx context.Context) ([]string, error) {
	return w.current().Generations(ctx)
}

func (w *Worker) current() CacheManager {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cache
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.logger.Debug("Worker state changed", zap.String("state", string(s)))
}

// Start runs install and then activate
func (w *Worker) Start(ctx context.Context) (models.InstallReport, models.ActivateReport) {
	install := w.OnInstall(ctx)
	activate := w.OnActivate(ctx)
	return install, activate
}

// OnInstall populates the current generation. The worker is installed even
// when population is incomplete.
func (w *Worker) OnInstall(ctx context.Context) models.InstallReport {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()

	w.setState(StateInstalling)
	report := w.current().Install(ctx)
	w.setState(StateInstalled)

	if !report.Complete() {
		w.logger.Warn("Install finished with missing assets",
			zap.String("generation", report.Generation),
			zap.Strings("skipped", report.Skipped))
	}
	return report
}

// OnActivate purges stale generations and starts intercepting fetches
func (w *Worker) OnActivate(ctx context.Context) models.ActivateReport {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()

	w.setState(StateActivating)
	report := w.current().Activate(ctx)
	w.setState(StateActivated)
	return report
}

// OnFetch resolves the request through the cache once the worker is activated.
// Before that every request passes through.
func (w *Worker) OnFetch(ctx context.Context, req *models.FetchRequest) models.FetchResult {
	w.mu.RLock()
	state, cache := w.state, w.cache
	w.mu.RUnlock()

	if state != StateActivated {
		return models.FetchResult{Outcome: models.FetchPassthrough}
	}
	return cache.Fetch(ctx, req)
}

// OnSync drains the queue for the configured sync tag and ignores other tags
func (w *Worker) OnSync(ctx context.Context, tag string) models.DrainReport {
	w.mu.RLock()
	syncTag := w.cfg.SyncTag
	w.mu.RUnlock()

	if tag != syncTag {
		w.logger.Debug("Ignoring sync event", zap.String("tag", tag))
		return models.DrainReport{Tag: tag, Status: models.SyncStatusIgnored, Delivered: []string{}}
	}

	report := w.drainer.Drain(ctx)
	report.Tag = tag
	return report
}

// OnPush shows a notification for the push message
func (w *Worker) OnPush(ctx context.Context, data []byte) models.PushResult {
	notification, err := w.push.Push(ctx, data)
	result := models.PushResult{Notification: notification}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// OnNotificationClick handles a click on a notification action
func (w *Worker) OnNotificationClick(ctx context.Context, action string) models.ClickResult {
	result, err := w.push.Click(ctx, action)
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// UpdateReport is the result of switching to a new worker configuration
type UpdateReport struct {
	Previous string                `json:"previous"`
	Install  models.InstallReport  `json:"install"`
	Activate models.ActivateReport `json:"activate"`
}

// Update installs the generation of a new configuration next to the current
// one, switches to it, then activates it so the previous generation is purged.
// Fetches keep being served by the previous generation until the switch.
func (w *Worker) Update(ctx context.Context, cfg config.WorkerConfig) (UpdateReport, error) {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()

	previous := w.Version()
	if cfg.Version == previous {
		return UpdateReport{Previous: previous}, ErrVersionUnchanged
	}

	next, err := w.newCache(cfg)
	if err != nil {
		return UpdateReport{Previous: previous}, fmt.Errorf("failed to create cache manager: %w", err)
	}

	report := UpdateReport{Previous: previous}
	report.Install = next.Install(ctx)

	w.mu.Lock()
	w.cfg = cfg
	w.cache = next
	w.mu.Unlock()

	report.Activate = next.Activate(ctx)
	w.setState(StateActivated)

	w.logger.Info("Worker updated",
		zap.String("previous", previous),
		zap.String("current", cfg.Version),
		zap.Bool("install_complete", report.Install.Complete()))
	return report, nil
}
