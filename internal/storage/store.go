// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitfree/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DraftStore persists expense drafts.
type DraftStore interface {
	// CreateDraft persists a new draft.
	// The draft.ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateDraft(ctx context.Context, draft *models.Draft) error

	// GetDraft retrieves a draft by its ID, including its selection and allocation.
	// Returns an error wrapping ErrNotFound if the draft does not exist.
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)

	// UpdateDraft replaces an existing draft, selection and allocation included.
	UpdateDraft(ctx context.Context, draft *models.Draft) error

	// DeleteDraft removes a draft.
	DeleteDraft(ctx context.Context, draftID string) error

	// ListDrafts returns the owner's drafts, newest first.
	// A zero groupID lists drafts across all groups.
	ListDrafts(ctx context.Context, ownerID, groupID int64) ([]*models.Draft, error)
}

// SessionStore persists signed-in sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteExpiredSessions removes sessions that expired before now (unix seconds)
	// and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now int64) (int64, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	DraftStore
	SessionStore

	// Close releases any resources held by the store.
	Close() error
}
