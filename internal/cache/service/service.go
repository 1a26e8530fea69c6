package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/metrics"
	"go-offline-worker/internal/models"
)

// ErrShellNotCached is returned when a navigation fails offline and the
// shell document is missing from the current generation
var ErrShellNotCached = errors.New("shell document not cached")

// CacheService implements install, activate and cache-first fetch over one
// cache generation named by the worker version
type CacheService struct {
	store      interfaces.GenerationStore
	fetcher    interfaces.Fetcher
	keyBuilder interfaces.KeyBuilder
	rules      interfaces.CacheRules
	cfg        config.WorkerConfig
	origin     *url.URL
	logger     *zap.Logger
	now        func() time.Time
}

// NewCacheService creates a new cache service for the given worker configuration
func NewCacheService(
	cfg config.WorkerConfig,
	store interfaces.GenerationStore,
	fetcher interfaces.Fetcher,
	rules interfaces.CacheRules,
	keyBuilder interfaces.KeyBuilder,
	logger *zap.Logger,
) (*CacheService, error) {
	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	if !origin.IsAbs() || origin.Host == "" {
		return nil, fmt.Errorf("origin must be absolute: %q", cfg.Origin)
	}
	if cfg.Version == "" {
		return nil, errors.New("version cannot be empty")
	}

	return &CacheService{
		store:      store,
		fetcher:    fetcher,
		keyBuilder: keyBuilder,
		rules:      rules,
		cfg:        cfg,
		origin:     origin,
		logger:     logger.With(zap.String("generation", cfg.Version)),
		now:        time.Now,
	}, nil
}

// Version returns the name of the current generation
func (s *CacheService) Version() string {
	return s.cfg.Version
}

// resolve turns a root-relative path into an absolute URL on the origin
func (s *CacheService) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	return s.origin.ResolveReference(ref), nil
}

// Install opens the current generation and populates it with the manifest in
// order. The first failing asset stops population; entries already written
// are kept.
func (s *CacheService) Install(ctx context.Context) models.InstallReport {
	report := models.InstallReport{Generation: s.cfg.Version, Cached: []string{}}

	if err := s.store.Open(ctx, s.cfg.Version); err != nil {
		s.logger.Error("Failed to open cache generation", zap.Error(err))
		report.Error = err.Error()
		report.Skipped = append(report.Skipped, s.cfg.Manifest...)
		return report
	}

	for i, path := range s.cfg.Manifest {
		if err := s.installAsset(ctx, path); err != nil {
			s.logger.Error("Failed to cache manifest asset", zap.String("asset", path), zap.Error(err))
			metrics.RecordInstallAsset("failed")
			report.Failed = &models.AssetFailure{URL: path, Error: err.Error()}
			report.Skipped = append(report.Skipped, s.cfg.Manifest[i+1:]...)
			for range s.cfg.Manifest[i+1:] {
				metrics.RecordInstallAsset("skipped")
			}
			break
		}
		metrics.RecordInstallAsset("cached")
		report.Cached = append(report.Cached, path)
	}

	s.logger.Info("Install finished",
		zap.Int("cached", len(report.Cached)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Bool("complete", report.Complete()))
	return report
}

func (s *CacheService) installAsset(ctx context.Context, path string) error {
	u, err := s.resolve(path)
	if err != nil {
		return fmt.Errorf("invalid manifest entry: %w", err)
	}
	key, err := s.keyBuilder.BuildURL(u)
	if err != nil {
		return err
	}

	req := &models.FetchRequest{
		Method: http.MethodGet,
		URL:    u,
		Header: http.Header{},
		Mode:   models.RequestModeSameOrigin,
	}
	resp, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("unexpected status %d", resp.Status)
	}

	if err := s.store.Set(ctx, s.cfg.Version, key, resp.Snapshot(s.now())); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Activate deletes every generation other than the current one
func (s *CacheService) Activate(ctx context.Context) models.ActivateReport {
	report := models.ActivateReport{Current: s.cfg.Version, Deleted: []string{}}

	names, err := s.store.Generations(ctx)
	if err != nil {
		s.logger.Error("Failed to list cache generations", zap.Error(err))
		report.Error = err.Error()
		return report
	}

	for _, name := range names {
		if name == s.cfg.Version {
			continue
		}
		if err := s.store.DeleteGeneration(ctx, name); err != nil {
			s.logger.Error("Failed to delete stale generation", zap.String("stale", name), zap.Error(err))
			report.Failed = append(report.Failed, models.GenerationFailure{Generation: name, Error: err.Error()})
			continue
		}
		report.Deleted = append(report.Deleted, name)
	}

	metrics.RecordGenerationsDeleted(len(report.Deleted))
	s.logger.Info("Activate finished", zap.Strings("deleted", report.Deleted), zap.Int("failed", len(report.Failed)))
	return report
}

// Fetch resolves a request cache-first against the current generation
func (s *CacheService) Fetch(ctx context.Context, req *models.FetchRequest) models.FetchResult {
	result := s.fetch(ctx, req)
	metrics.RecordFetch(string(result.Outcome))
	return result
}

func (s *CacheService) fetch(ctx context.Context, req *models.FetchRequest) models.FetchResult {
	if !s.rules.Intercepts(req) {
		return models.FetchResult{Outcome: models.FetchPassthrough}
	}

	key, err := s.keyBuilder.Build(req)
	if err != nil {
		s.logger.Debug("Request has no cache key, passing through", zap.Error(err))
		return models.FetchResult{Outcome: models.FetchPassthrough}
	}

	cached, found, err := s.store.Get(ctx, s.cfg.Version, key)
	if err != nil {
		s.logger.Warn("Cache lookup failed, going to network", zap.String("key", key), zap.Error(err))
	}
	if found {
		return models.FetchResult{Outcome: models.FetchCacheHit, Response: cached.Clone()}
	}

	resp, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return s.fallback(ctx, req, err)
	}

	if !s.rules.Storable(req, resp) {
		return models.FetchResult{Outcome: models.FetchNetworkUncached, Response: resp}
	}

	if err := s.store.Set(ctx, s.cfg.Version, key, resp.Snapshot(s.now())); err != nil {
		s.logger.Warn("Failed to store network response", zap.String("key", key), zap.Error(err))
		return models.FetchResult{Outcome: models.FetchNetworkUncached, Response: resp}
	}
	return models.FetchResult{Outcome: models.FetchNetworkStored, Response: resp}
}

// fallback serves the cached shell to navigations that failed on the network
func (s *CacheService) fallback(ctx context.Context, req *models.FetchRequest, fetchErr error) models.FetchResult {
	failed := models.FetchResult{Outcome: models.FetchFailed, Err: fetchErr}
	if !req.IsNavigation() {
		return failed
	}

	shell, err := s.resolve(s.cfg.Shell)
	if err != nil {
		return failed
	}
	key, err := s.keyBuilder.BuildURL(shell)
	if err != nil {
		return failed
	}

	cached, found, err := s.store.Get(ctx, s.cfg.Version, key)
	if err != nil || !found {
		s.logger.Warn("Navigation failed and shell is unavailable", zap.String("url", req.URL.String()), zap.Error(err))
		return models.FetchResult{Outcome: models.FetchFailed, Err: errors.Join(fetchErr, ErrShellNotCached)}
	}
	return models.FetchResult{Outcome: models.FetchShellFallback, Response: cached.Clone()}
}

// Generations lists the generations held by the store
func (s *CacheService) Generations(ctx context.Context) ([]string, error) {
	return s.store.Generations(ctx)
}
