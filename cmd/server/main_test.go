package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/internal/config"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/storage"
)

func TestCORSMiddleware(t *testing.T) {
	called := false
	handler := corsMiddleware("https://app.example.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/splitfree.v1.DraftService/GetDraft", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.False(t, called, "preflight is answered directly")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/splitfree.v1.DraftService/GetDraft", nil))
	assert.True(t, called)
}

func TestSweepSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)

	store, err := openStore(ctx, config.StorageConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer func() {
		cancel()
		store.Close()
	}()

	expired := &models.Session{MemberID: 1, RemoteToken: "a", ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	live := &models.Session{MemberID: 2, RemoteToken: "b", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	require.NoError(t, store.CreateSession(ctx, expired))
	require.NoError(t, store.CreateSession(ctx, live))

	go sweepSessions(ctx, store, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, err := store.GetSession(ctx, expired.ID)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err = store.GetSession(ctx, expired.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetSession(ctx, live.ID)
	assert.NoError(t, err)
}
