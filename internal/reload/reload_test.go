package reload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/worker"
)

type fakeUpdater struct {
	mu       sync.Mutex
	versions []string
	current  string
	err      error
}

func (f *fakeUpdater) Update(ctx context.Context, cfg config.WorkerConfig) (worker.UpdateReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return worker.UpdateReport{}, f.err
	}
	if cfg.Version == f.current {
		return worker.UpdateReport{Previous: f.current}, worker.ErrVersionUnchanged
	}
	report := worker.UpdateReport{Previous: f.current}
	f.current = cfg.Version
	f.versions = append(f.versions, cfg.Version)
	return report, nil
}

func (f *fakeUpdater) Origin() string { return "http://localhost:3000" }

func (f *fakeUpdater) applied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.versions...)
}

func writeConfig(t *testing.T, path, version string) {
	t.Helper()
	writeConfigWithOrigin(t, path, version, "http://localhost:3000")
}

func writeConfigWithOrigin(t *testing.T, path, version, origin string) {
	t.Helper()
	content := fmt.Sprintf(`
worker:
  version: %s
  origin: %s
sync:
  endpoint: http://localhost:3000/api/tasks
`, version, origin)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestReload_AppliesNewVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker_config.yaml")
	writeConfig(t, path, "v2")

	updater := &fakeUpdater{current: "v1"}
	w := NewWatcher(path, updater, zap.NewNop())

	w.Reload(context.Background())
	assert.Equal(t, []string{"v2"}, updater.applied())

	// Same version again is a no-op
	w.Reload(context.Background())
	assert.Equal(t, []string{"v2"}, updater.applied())
}

func TestReload_InvalidConfigKeepsWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker: [broken"), 0o600))

	updater := &fakeUpdater{current: "v1"}
	NewWatcher(path, updater, zap.NewNop()).Reload(context.Background())

	assert.Empty(t, updater.applied())
}

func TestReload_OriginChangeIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker_config.yaml")
	writeConfigWithOrigin(t, path, "v2", "http://localhost:4000")

	updater := &fakeUpdater{current: "v1"}
	NewWatcher(path, updater, zap.NewNop()).Reload(context.Background())

	assert.Empty(t, updater.applied())
}

func TestReload_UpdateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker_config.yaml")
	writeConfig(t, path, "v2")

	updater := &fakeUpdater{current: "v1", err: errors.New("bad origin")}
	NewWatcher(path, updater, zap.NewNop()).Reload(context.Background())

	assert.Empty(t, updater.applied())
}

func TestRun_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_config.yaml")
	writeConfig(t, path, "v1")

	updater := &fakeUpdater{current: "v1"}
	w := NewWatcher(path, updater, zap.NewNop())
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	writeConfig(t, path, "v2")

	assert.Eventually(t, func() bool {
		applied := updater.applied()
		return len(applied) == 1 && applied[0] == "v2"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "worker_config.yaml"), &fakeUpdater{}, zap.NewNop())
	assert.Error(t, w.Run(context.Background()))
}
