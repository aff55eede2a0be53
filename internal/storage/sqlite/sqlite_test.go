package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfree/internal/allocator"
	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newDraft(owner, group int64) *models.Draft {
	split := allocator.New().
		SetTotalAmount("50.00").
		SetParticipants([]allocator.ParticipantID{3, 1, 2}).
		SetParticipantAmount(1, "")
	return &models.Draft{
		OwnerID: owner,
		GroupID: group,
		Title:   "Dinner",
		PaidBy:  owner,
		Date:    "2026-10-19",
		Split:   split,
	}
}

func TestDrafts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateDraft generates ID and timestamps", func(t *testing.T) {
		draft := newDraft(1, 10)

		require.NoError(t, store.CreateDraft(ctx, draft))

		assert.NotEmpty(t, draft.ID)
		assert.NotZero(t, draft.CreatedAt)
		assert.NotZero(t, draft.UpdatedAt)
	})

	t.Run("GetDraft restores selection order and cleared entries", func(t *testing.T) {
		original := newDraft(1, 10)
		require.NoError(t, store.CreateDraft(ctx, original))

		got, err := store.GetDraft(ctx, original.ID)
		require.NoError(t, err)

		assert.Equal(t, "Dinner", got.Title)
		assert.Equal(t, "2026-10-19", got.Date)
		assert.Equal(t, "50.00", got.Split.AmountText)
		assert.Equal(t, []allocator.ParticipantID{3, 1, 2}, got.Split.SplitBetween)
		_, ok := got.Split.Allocation[1]
		assert.False(t, ok, "cleared participant should have no entry")
		assert.Equal(t, "25.00", got.Split.Allocation[3].StringFixed(2))
		assert.Equal(t, "25.00", got.Split.Allocation[2].StringFixed(2))
		assert.NoError(t, got.Split.Validate())
	})

	t.Run("GetDraft returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetDraft(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateDraft replaces the allocation", func(t *testing.T) {
		draft := newDraft(1, 10)
		require.NoError(t, store.CreateDraft(ctx, draft))

		draft.Title = "Lunch"
		draft.Split = draft.Split.SetParticipants([]allocator.ParticipantID{2}).SetTotalAmount("12.34")
		require.NoError(t, store.UpdateDraft(ctx, draft))

		got, err := store.GetDraft(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lunch", got.Title)
		assert.Equal(t, []allocator.ParticipantID{2}, got.Split.SplitBetween)
		assert.Len(t, got.Split.Allocation, 1)
		assert.Equal(t, "12.34", got.Split.Allocation[2].StringFixed(2))
	})

	t.Run("UpdateDraft on missing draft", func(t *testing.T) {
		draft := newDraft(1, 10)
		draft.ID = "missing"
		assert.ErrorIs(t, store.UpdateDraft(ctx, draft), storage.ErrNotFound)
	})

	t.Run("DeleteDraft", func(t *testing.T) {
		draft := newDraft(1, 10)
		require.NoError(t, store.CreateDraft(ctx, draft))

		require.NoError(t, store.DeleteDraft(ctx, draft.ID))

		_, err := store.GetDraft(ctx, draft.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteDraft(ctx, draft.ID), storage.ErrNotFound)
	})
}

func TestListDrafts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []*models.Draft{newDraft(7, 1), newDraft(7, 2), newDraft(8, 1)} {
		require.NoError(t, store.CreateDraft(ctx, d))
	}

	all, err := store.ListDrafts(ctx, 7, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, d := range all {
		assert.Equal(t, int64(7), d.OwnerID)
		assert.Len(t, d.Split.SplitBetween, 3)
	}

	inGroup, err := store.ListDrafts(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.Equal(t, int64(2), inGroup[0].GroupID)

	none, err := store.ListDrafts(ctx, 99, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Unix()

	live := &models.Session{MemberID: 4, RemoteToken: "tok-live", ExpiresAt: now + 3600}
	stale := &models.Session{MemberID: 5, RemoteToken: "tok-stale", ExpiresAt: now - 10}
	require.NoError(t, store.CreateSession(ctx, live))
	require.NoError(t, store.CreateSession(ctx, stale))
	assert.NotEmpty(t, live.ID)

	got, err := store.GetSession(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok-live", got.RemoteToken)
	assert.Equal(t, int64(4), got.MemberID)

	n, err := store.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.GetSession(ctx, stale.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.DeleteSession(ctx, live.ID))
	_, err = store.GetSession(ctx, live.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
