package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/models"
)

func testRecord() *models.DeferredWrite {
	return &models.DeferredWrite{
		ID:        "0190f5c2-8a4b-7c3d-9e1f-2a3b4c5d6e7f",
		Payload:   json.RawMessage(`{"title":"water plants","done":false}`),
		CreatedAt: time.Now(),
	}
}

func TestDeliver_PostsPayload(t *testing.T) {
	var gotBody, gotID, gotType, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotID = r.Header.Get(HeaderRecordID)
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(&config.SyncConfig{Endpoint: server.URL + "/api/tasks", Timeout: time.Second}, zap.NewNop())

	err := client.Deliver(context.Background(), testRecord())

	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"water plants","done":false}`, gotBody)
	assert.Equal(t, "0190f5c2-8a4b-7c3d-9e1f-2a3b4c5d6e7f", gotID)
	assert.Equal(t, "application/json", gotType)
	assert.Empty(t, gotAuth)
}

func TestDeliver_RejectedStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := New(&config.SyncConfig{Endpoint: server.URL, Timeout: time.Second}, zap.NewNop())
		err := client.Deliver(context.Background(), testRecord())

		assert.ErrorIs(t, err, ErrDeliveryRejected, "status %d", status)
		server.Close()
	}
}

func TestDeliver_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	client := New(&config.SyncConfig{Endpoint: endpoint, Timeout: time.Second}, zap.NewNop())
	err := client.Deliver(context.Background(), testRecord())

	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrDeliveryRejected))
}

func TestDeliver_SignsToken(t *testing.T) {
	const secret = "test-secret"
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := &config.SyncConfig{
		Endpoint: server.URL,
		Timeout:  time.Second,
		Auth:     config.SyncAuthConfig{Secret: secret, Issuer: "offline-worker", TokenTTL: time.Minute},
	}
	record := testRecord()

	require.NoError(t, New(cfg, zap.NewNop()).Deliver(context.Background(), record))
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, record.ID, claims.ID)
	assert.Equal(t, record.ID, claims.RecordID)
	assert.Equal(t, "offline-worker", claims.Issuer)
}

func TestGenerateToken_Expires(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	signed, err := GenerateToken("secret", "offline-worker", "abc", time.Minute, issued)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})

	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
