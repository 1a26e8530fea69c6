package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-offline-worker/internal/cache/l1"
	"go-offline-worker/internal/config"
	"go-offline-worker/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func minimalConfig(origin, extra string) string {
	return fmt.Sprintf(`
worker:
  version: tasks-v1
  origin: %s
  shell: /index.html
  manifest:
    - /index.html
    - /app.js

sync:
  endpoint: %s/api/sync
%s`, origin, origin, extra)
}

func navigation(t *testing.T, rawURL string) *models.FetchRequest {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &models.FetchRequest{Method: http.MethodGet, URL: u, Header: http.Header{}, Mode: models.RequestModeNavigate}
}

func TestNewCompositionRoot_MinimalConfigServesOffline(t *testing.T) {
	ctx := context.Background()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "asset %s", r.URL.Path)
	}))

	root, err := NewCompositionRoot(writeConfig(t, minimalConfig(origin.URL, "")), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Cleanup() })

	assert.IsType(t, &l1.BigCache{}, root.L1Cache)

	install, activate := root.Worker.Start(ctx)
	require.True(t, install.Complete())
	require.Empty(t, activate.Error)

	origin.Close()

	hit := root.Worker.OnFetch(ctx, navigation(t, origin.URL+"/index.html"))
	assert.Equal(t, models.FetchCacheHit, hit.Outcome)
	require.NotNil(t, hit.Response)
	assert.Equal(t, []byte("asset /index.html"), hit.Response.Body)

	shell := root.Worker.OnFetch(ctx, navigation(t, origin.URL+"/tasks/today"))
	assert.Equal(t, models.FetchShellFallback, shell.Outcome)
	require.NotNil(t, shell.Response)
	assert.Equal(t, []byte("asset /index.html"), shell.Response.Body)
}

func TestNewCompositionRoot_RequiresCacheLevel(t *testing.T) {
	t.Setenv("KEYDB_URL", "redis://127.0.0.1:1")

	tests := []struct {
		name  string
		extra string
	}{
		{
			name: "both disabled",
			extra: `
bigcache:
  enabled: false
`,
		},
		{
			name: "keydb only and unreachable",
			extra: `
bigcache:
  enabled: false
keydb:
  enabled: true
  connection:
    connect_timeout: 200ms
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompositionRoot(writeConfig(t, minimalConfig("http://localhost:3000", tt.extra)), false)

			assert.ErrorIs(t, err, config.ErrNoCacheLevel)
		})
	}
}
