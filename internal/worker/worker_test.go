package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-offline-worker/internal/cache"
	"go-offline-worker/internal/cache/l1"
	"go-offline-worker/internal/cache/service"
	"go-offline-worker/internal/cache_rules"
	"go-offline-worker/internal/config"
	"go-offline-worker/internal/interfaces/mock"
	"go-offline-worker/internal/models"
	"go-offline-worker/internal/notify"
	"go-offline-worker/internal/queue"
	"go-offline-worker/internal/queue/badgerstore"
)

type testHarness struct {
	worker  *Worker
	store   *l1.BigCache
	fetcher *mock.MockFetcher
	client  *mock.MockSyncClient
	queue   *queue.Queue
	windows *notify.Windows
	outbox  *notify.Outbox
}

func testConfig(version string) config.WorkerConfig {
	return config.WorkerConfig{
		Version:  version,
		Origin:   "http://localhost:3000",
		Shell:    "/index.html",
		Manifest: []string{"/", "/index.html", "/static/js/bundle.js"},
		SyncTag:  config.DefaultSyncTag,
	}
}

func newHarness(t *testing.T, cfg config.WorkerConfig) *testHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := zap.NewNop()

	store, err := l1.NewBigCache(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	records, err := badgerstore.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })

	fetcher := mock.NewMockFetcher(ctrl)
	client := mock.NewMockSyncClient(ctrl)
	q := queue.New(records, client, logger)

	pushCfg := &config.PushConfig{Title: "Tasks", DefaultBody: config.DefaultPushBody, RootURL: "/", OpenTitle: "Open", CloseTitle: "Close"}
	outbox := notify.NewOutbox(10)
	windows := notify.NewWindows()

	rules := cache_rules.NewClassifier(logger)
	newCache := func(cfg config.WorkerConfig) (CacheManager, error) {
		return service.NewCacheService(cfg, store, fetcher, rules, cache.NewKeyBuilder(), logger)
	}

	w, err := New(cfg, newCache, q, notify.NewNotifier(pushCfg, outbox, windows, logger), logger)
	require.NoError(t, err)

	return &testHarness{worker: w, store: store, fetcher: fetcher, client: client, queue: q, windows: windows, outbox: outbox}
}

func (h *testHarness) serveOrigin(body string) {
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *models.FetchRequest) (*models.Response, error) {
			return &models.Response{URL: req.URL.String(), Status: http.StatusOK, Type: models.ResponseTypeBasic, Body: []byte(body)}, nil
		}).
		AnyTimes()
}

func getRequest(t *testing.T, rawURL string, mode models.RequestMode) *models.FetchRequest {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &models.FetchRequest{Method: http.MethodGet, URL: u, Header: http.Header{}, Mode: mode}
}

func TestNew_FactoryError(t *testing.T) {
	_, err := New(testConfig("v1"), func(config.WorkerConfig) (CacheManager, error) {
		return nil, errors.New("bad origin")
	}, nil, nil, zap.NewNop())

	assert.Error(t, err)
}

func TestStart_Lifecycle(t *testing.T) {
	h := newHarness(t, testConfig("tasks-v1"))
	h.serveOrigin("asset")

	assert.Equal(t, StateParsed, h.worker.State())
	assert.Equal(t, config.DefaultSyncTag, h.worker.SyncTag())
	assert.Equal(t, "http://localhost:3000", h.worker.Origin())

	install, activate := h.worker.Start(context.Background())

	assert.True(t, install.Complete())
	assert.Equal(t, "tasks-v1", activate.Current)
	assert.Equal(t, StateActivated, h.worker.State())
}

func TestOnFetch_PassesThroughUntilActivated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig("tasks-v1"))
	h.serveOrigin("asset")

	req := getRequest(t, "http://localhost:3000/index.html", models.RequestModeNavigate)
	assert.Equal(t, models.FetchPassthrough, h.worker.OnFetch(ctx, req).Outcome)

	h.worker.OnInstall(ctx)
	assert.Equal(t, StateInstalled, h.worker.State())
	assert.Equal(t, models.FetchPassthrough, h.worker.OnFetch(ctx, req).Outcome)

	h.worker.OnActivate(ctx)
	assert.Equal(t, models.FetchCacheHit, h.worker.OnFetch(ctx, req).Outcome)
}

func TestOnSync_DrainsConfiguredTag(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig("tasks-v1"))

	_, err := h.queue.Enqueue(ctx, json.RawMessage(`{"title":"a"}`))
	require.NoError(t, err)
	h.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)

	report := h.worker.OnSync(ctx, config.DefaultSyncTag)

	assert.Equal(t, config.DefaultSyncTag, report.Tag)
	assert.Equal(t, models.SyncStatusDrained, report.Status)
	assert.Len(t, report.Delivered, 1)
}

func TestOnSync_IgnoresForeignTag(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockRecordStore(ctrl)
	// No expectations on the record store or the sync client
	q := queue.New(store, mock.NewMockSyncClient(ctrl), zap.NewNop())

	w, err := New(testConfig("v1"), func(cfg config.WorkerConfig) (CacheManager, error) {
		return service.NewCacheService(cfg, mock.NewMockGenerationStore(ctrl), mock.NewMockFetcher(ctrl), cache_rules.NewClassifier(zap.NewNop()), cache.NewKeyBuilder(), zap.NewNop())
	}, q, nil, zap.NewNop())
	require.NoError(t, err)

	report := w.OnSync(ctx, "periodic-refresh")

	assert.Equal(t, models.SyncStatusIgnored, report.Status)
	assert.Equal(t, "periodic-refresh", report.Tag)
	assert.Zero(t, report.Attempted)
}

func TestOnPush_And_Click(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig("tasks-v1"))

	push := h.worker.OnPush(ctx, nil)
	require.Empty(t, push.Error)
	assert.Equal(t, config.DefaultPushBody, push.Notification.Body)
	assert.Len(t, h.outbox.List(), 1)

	closed := h.worker.OnNotificationClick(ctx, models.NotificationActionClose)
	assert.True(t, closed.Closed)
	assert.Empty(t, h.windows.Open())

	opened := h.worker.OnNotificationClick(ctx, models.NotificationActionOpen)
	assert.Equal(t, "/", opened.Opened)
	assert.Equal(t, []string{"/"}, h.windows.Open())
}

func TestUpdate_SwitchesGeneration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testConfig("tasks-v1"))
	h.serveOrigin("asset")

	h.worker.Start(ctx)

	report, err := h.worker.Update(ctx, testConfig("tasks-v2"))

	require.NoError(t, err)
	assert.Equal(t, "tasks-v1", report.Previous)
	assert.True(t, report.Install.Complete())
	assert.Equal(t, []string{"tasks-v1"}, report.Activate.Deleted)
	assert.Equal(t, "tasks-v2", h.worker.Version())
	assert.Equal(t, StateActivated, h.worker.State())

	names, err := h.worker.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks-v2"}, names)

	result := h.worker.OnFetch(ctx, getRequest(t, "http://localhost:3000/static/js/bundle.js", models.RequestModeSameOrigin))
	assert.Equal(t, models.FetchCacheHit, result.Outcome)
}

func TestUpdate_SameVersion(t *testing.T) {
	h := newHarness(t, testConfig("tasks-v1"))

	_, err := h.worker.Update(context.Background(), testConfig("tasks-v1"))

	assert.ErrorIs(t, err, ErrVersionUnchanged)
}
