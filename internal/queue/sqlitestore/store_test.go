package sqlitestore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(id, payload string, createdAt time.Time) *models.DeferredWrite {
	return &models.DeferredWrite{ID: id, Payload: json.RawMessage(payload), CreatedAt: createdAt}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_ListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, record("c", `{"n":3}`, base.Add(2*time.Second))))
	require.NoError(t, store.Put(ctx, record("a", `{"n":1}`, base)))
	require.NoError(t, store.Put(ctx, record("b", `{"n":2}`, base.Add(time.Second))))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].ID, records[1].ID, records[2].ID})
	assert.JSONEq(t, `{"n":2}`, string(records[1].Payload))
	assert.True(t, records[0].CreatedAt.Equal(base))
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.Put(ctx, record("a", `{"v":1}`, now)))
	require.NoError(t, store.Put(ctx, record("a", `{"v":2}`, now)))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"v":2}`, string(records[0].Payload))
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, record("a", `{}`, time.Now())))

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), interfaces.ErrRecordNotFound)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, record("a", `{"title":"offline edit"}`, time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestStore_Close_Nil(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Close())
}
