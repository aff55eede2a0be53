package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/internal/allocator"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/storage"
)

// newTestStore connects to the database named by SPLITFREE_TEST_POSTGRES_DSN.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("SPLITFREE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SPLITFREE_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := New(ctx, dsn, Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDraftRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := time.Now().UnixNano()

	draft := &models.Draft{
		OwnerID: owner,
		GroupID: 1,
		Title:   "Groceries",
		Split: allocator.New().
			SetTotalAmount("100").
			SetParticipants([]allocator.ParticipantID{2, 1}).
			SetParticipantAmount(2, "40"),
	}
	require.NoError(t, store.CreateDraft(ctx, draft))
	t.Cleanup(func() { store.DeleteDraft(ctx, draft.ID) })

	got, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, []allocator.ParticipantID{2, 1}, got.Split.SplitBetween)
	assert.Equal(t, "40.00", got.Split.Allocation[2].StringFixed(2))
	assert.Equal(t, "60.00", got.Split.Allocation[1].StringFixed(2))

	got.Split = got.Split.SetParticipantAmount(1, "")
	require.NoError(t, store.UpdateDraft(ctx, got))

	again, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	_, ok := again.Split.Allocation[1]
	assert.False(t, ok)

	list, err := store.ListDrafts(ctx, owner, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeleteDraft(ctx, draft.ID))
	_, err = store.GetDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session := &models.Session{MemberID: 3, RemoteToken: "tok", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	require.NoError(t, store.CreateSession(ctx, session))

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.RemoteToken)

	require.NoError(t, store.DeleteSession(ctx, session.ID))
	_, err = store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
