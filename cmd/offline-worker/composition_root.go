package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"go-offline-worker/internal/cache"
	"go-offline-worker/internal/cache/l1"
	"go-offline-worker/internal/cache/l2"
	"go-offline-worker/internal/cache/multi"
	"go-offline-worker/internal/cache/noop"
	"go-offline-worker/internal/cache/service"
	"go-offline-worker/internal/cache_rules"
	"go-offline-worker/internal/config"
	"go-offline-worker/internal/httpserver"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
	"go-offline-worker/internal/network"
	"go-offline-worker/internal/notify"
	"go-offline-worker/internal/queue"
	"go-offline-worker/internal/queue/badgerstore"
	"go-offline-worker/internal/queue/sqlitestore"
	"go-offline-worker/internal/reload"
	"go-offline-worker/internal/scheduler"
	"go-offline-worker/internal/syncclient"
	"go-offline-worker/internal/worker"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	ConfigPath string
	Config     *config.Config
	Logger     *zap.Logger
	CacheRules interfaces.CacheRules
	KeyBuilder interfaces.KeyBuilder

	// Cache components
	L1Cache interfaces.GenerationStore
	L2Cache interfaces.GenerationStore
	Store   interfaces.GenerationStore
	Fetcher *network.HTTPFetcher

	// Deferred writes and notifications
	Records  interfaces.RecordStore
	Queue    *queue.Queue
	Outbox   *notify.Outbox
	Windows  *notify.Windows
	Notifier *notify.Notifier

	// Services
	Worker        *worker.Worker
	HTTPServer    *httpserver.Server
	SyncScheduler *scheduler.Scheduler
	Reloader      *reload.Watcher
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Cache components (L1, L2, multi-level store, fetcher)
// 4. Queue components (record store, sync client)
// 5. Notification components
// 6. Worker and the services driving it
func NewCompositionRoot(configPath string, debug bool) (*CompositionRoot, error) {
	root := &CompositionRoot{ConfigPath: configPath}

	// Initialize logger first
	if err := root.initLogger(debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Load configuration
	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize cache components
	if err := root.initCacheComponents(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	// Initialize deferred write queue
	if err := root.initQueue(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	root.initNotifications()

	// Initialize worker and services
	if err := root.initServices(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger(debug bool) error {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	cfg, err := config.LoadConfig(r.ConfigPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initCacheComponents initializes all cache-related components
func (r *CompositionRoot) initCacheComponents() error {
	r.CacheRules = cache_rules.NewClassifier(r.Logger)
	r.KeyBuilder = cache.NewKeyBuilder()

	// Initialize L1 cache (BigCache)
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	// Initialize L2 cache (KeyDB)
	if err := r.initL2Cache(); err != nil {
		return fmt.Errorf("failed to initialize L2 cache: %w", err)
	}

	r.Store = multi.NewMultiCache(
		[]interfaces.GenerationStore{r.L1Cache, r.L2Cache},
		r.Logger,
		r.Config.MultiCache.EnablePropagation,
	)

	fetcher, err := network.NewHTTPFetcher(r.Config.Worker.Origin, &r.Config.Network, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}
	r.Fetcher = fetcher

	return nil
}

// initL1Cache initializes the L1 cache (BigCache)
func (r *CompositionRoot) initL1Cache() error {
	if r.Config.BigCache.IsEnabled() {
		l1Cache, err := l1.NewBigCache(r.Logger)
		if err != nil {
			return err
		}
		l1Cache.StartMetricsCollection(r.Config.Server.MetricsInterval)
		r.L1Cache = l1Cache
		r.Logger.Info("BigCache (L1) initialized")
	} else {
		r.L1Cache = noop.NewNoOpCache()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Cache initializes the L2 cache (KeyDB). An unreachable KeyDB falls
// back to no L2 unless it is the only level.
func (r *CompositionRoot) initL2Cache() error {
	if !r.Config.KeyDB.Enabled {
		r.L2Cache = noop.NewNoOpCache()
		r.Logger.Info("KeyDB (L2) disabled")
		return nil
	}

	keydbURL := GetKeyDBURL(r.Logger)

	// Create KeyDB client
	keydbClient, err := l2.NewRedisKeyDbClient(&r.Config.KeyDB, keydbURL, r.Logger)
	if err != nil {
		if !r.Config.BigCache.IsEnabled() {
			return fmt.Errorf("%w: %w", config.ErrNoCacheLevel, err)
		}
		r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 cache",
			zap.String("keydb_url", keydbURL),
			zap.Error(err))
		r.L2Cache = noop.NewNoOpCache()
		return nil
	}

	// Create L2 cache with the client
	r.L2Cache = l2.NewKeyDBCache(&r.Config.KeyDB, keydbClient, r.Logger)
	r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", keydbURL))
	return nil
}

// initQueue opens the record store for the configured backend
func (r *CompositionRoot) initQueue() error {
	var (
		records interfaces.RecordStore
		err     error
	)

	switch r.Config.Queue.Backend {
	case config.QueueBackendSQLite:
		records, err = sqlitestore.Open(r.Config.Queue.Path)
	default:
		records, err = badgerstore.Open(r.Config.Queue.Path, NewBadgerLogger(r.Logger))
	}
	if err != nil {
		return err
	}
	r.Records = records
	r.Logger.Info("Record store initialized",
		zap.String("backend", r.Config.Queue.Backend),
		zap.String("path", r.Config.Queue.Path))

	client := syncclient.New(&r.Config.Sync, r.Logger)
	r.Queue = queue.New(r.Records, client, r.Logger)
	return nil
}

// initNotifications initializes the in-process notification surface
func (r *CompositionRoot) initNotifications() {
	r.Outbox = notify.NewOutbox(r.Config.Push.OutboxCapacity)
	r.Windows = notify.NewWindows()
	r.Notifier = notify.NewNotifier(&r.Config.Push, r.Outbox, r.Windows, r.Logger)
}

// initServices initializes the worker, the HTTP server and background tasks
func (r *CompositionRoot) initServices() error {
	newCache := func(cfg config.WorkerConfig) (worker.CacheManager, error) {
		return service.NewCacheService(cfg, r.Store, r.Fetcher, r.CacheRules, r.KeyBuilder, r.Logger)
	}

	w, err := worker.New(r.Config.Worker, newCache, r.Queue, r.Notifier, r.Logger)
	if err != nil {
		return err
	}
	r.Worker = w

	origin, err := url.Parse(r.Config.Worker.Origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	r.HTTPServer = httpserver.NewServer(
		&r.Config.Server,
		origin,
		r.Worker,
		r.Queue,
		r.Outbox,
		r.Fetcher,
		r.Logger,
	)

	r.SyncScheduler = scheduler.New(r.Config.Sync.Interval, r.syncTick)
	r.Reloader = reload.NewWatcher(r.ConfigPath, r.Worker, r.Logger)

	return nil
}

// syncTick fires the sync event on the configured cadence
func (r *CompositionRoot) syncTick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.Config.Sync.Interval)
	defer cancel()

	report := r.Worker.OnSync(ctx, r.Worker.SyncTag())
	if report.Status != models.SyncStatusDrained || report.Attempted > 0 {
		r.Logger.Info("Periodic sync finished",
			zap.String("status", string(report.Status)),
			zap.Int("attempted", report.Attempted),
			zap.Int("delivered", len(report.Delivered)))
	}
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	// Close L1 cache
	if l1BigCache, ok := r.L1Cache.(*l1.BigCache); ok {
		if err := l1BigCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 cache: %w", err))
		}
	}

	// Close L2 cache
	if l2KeyDBCache, ok := r.L2Cache.(*l2.KeyDBCache); ok {
		if err := l2KeyDBCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L2 cache: %w", err))
		}
	}

	// Close record store
	if r.Records != nil {
		if err := r.Records.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close record store: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}

	return errors.Join(errs...)
}
