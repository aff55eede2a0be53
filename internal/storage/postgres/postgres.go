// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    owner_id BIGINT NOT NULL,
    group_id BIGINT NOT NULL,
    expense_id BIGINT NOT NULL DEFAULT 0,
    title TEXT NOT NULL DEFAULT '',
    paid_by BIGINT NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    expense_date TEXT NOT NULL DEFAULT '',
    amount_text TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_participants (
    draft_id TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
    member_id BIGINT NOT NULL,
    position INTEGER NOT NULL,
    amount TEXT,
    PRIMARY KEY (draft_id, member_id)
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    member_id BIGINT NOT NULL,
    remote_token TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    expires_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_owner_id ON drafts(owner_id, group_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

// Options tunes the connection pool.
type Options struct {
	MaxConns int32
}

// Store implements storage.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn, verifies the connection and runs migrations.
func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse PostgreSQL config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.HealthCheckPeriod = 15 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create PostgreSQL connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach PostgreSQL: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// CreateDraft persists a new draft.
func (s *Store) CreateDraft(ctx context.Context, draft *models.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if draft.CreatedAt == 0 {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO drafts (id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			draft.ID, draft.OwnerID, draft.GroupID, draft.ExpenseID, draft.Title, draft.PaidBy,
			draft.Notes, draft.Date, draft.Split.AmountText, draft.CreatedAt, draft.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert draft: %w", err)
		}
		return insertParticipants(ctx, tx, draft)
	})
}

// GetDraft retrieves a draft by ID.
func (s *Store) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	draft := &models.Draft{}
	var amountText string
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at
		 FROM drafts WHERE id = $1`,
		draftID,
	).Scan(&draft.ID, &draft.OwnerID, &draft.GroupID, &draft.ExpenseID, &draft.Title, &draft.PaidBy,
		&draft.Notes, &draft.Date, &amountText, &draft.CreatedAt, &draft.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", draftID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if err := s.loadSplit(ctx, draft, amountText); err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateDraft replaces a draft's fields, selection and allocation.
func (s *Store) UpdateDraft(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().Unix()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE drafts SET title = $1, paid_by = $2, notes = $3, expense_date = $4, amount_text = $5, updated_at = $6
			 WHERE id = $7`,
			draft.Title, draft.PaidBy, draft.Notes, draft.Date, draft.Split.AmountText, draft.UpdatedAt, draft.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("draft %s: %w", draft.ID, storage.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM draft_participants WHERE draft_id = $1", draft.ID); err != nil {
			return fmt.Errorf("failed to clear draft participants: %w", err)
		}
		return insertParticipants(ctx, tx, draft)
	})
}

// DeleteDraft removes a draft; participants cascade.
func (s *Store) DeleteDraft(ctx context.Context, draftID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM drafts WHERE id = $1", draftID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft %s: %w", draftID, storage.ErrNotFound)
	}
	return nil
}

// ListDrafts returns the owner's drafts, newest first.
func (s *Store) ListDrafts(ctx context.Context, ownerID, groupID int64) ([]*models.Draft, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at
		 FROM drafts WHERE owner_id = $1 AND ($2::bigint = 0 OR group_id = $2::bigint)
		 ORDER BY updated_at DESC, id`,
		ownerID, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	var drafts []*models.Draft
	var amountTexts []string
	for rows.Next() {
		draft := &models.Draft{}
		var amountText string
		if err := rows.Scan(&draft.ID, &draft.OwnerID, &draft.GroupID, &draft.ExpenseID, &draft.Title, &draft.PaidBy,
			&draft.Notes, &draft.Date, &amountText, &draft.CreatedAt, &draft.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
		amountTexts = append(amountTexts, amountText)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	for i, draft := range drafts {
		if err := s.loadSplit(ctx, draft, amountTexts[i]); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

func (s *Store) loadSplit(ctx context.Context, draft *models.Draft, amountText string) error {
	rows, err := s.pool.Query(ctx,
		"SELECT member_id, position, amount FROM draft_participants WHERE draft_id = $1 ORDER BY position",
		draft.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get draft participants: %w", err)
	}
	defer rows.Close()

	var participants []storage.ParticipantRow
	for rows.Next() {
		var row storage.ParticipantRow
		if err := rows.Scan(&row.MemberID, &row.Position, &row.Amount); err != nil {
			return fmt.Errorf("failed to scan draft participant: %w", err)
		}
		participants = append(participants, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate draft participants: %w", err)
	}

	split, err := storage.RestoreSplit(amountText, participants)
	if err != nil {
		return fmt.Errorf("failed to restore split for draft %s: %w", draft.ID, err)
	}
	draft.Split = split
	return nil
}

func insertParticipants(ctx context.Context, tx pgx.Tx, draft *models.Draft) error {
	rows := storage.SplitRows(draft.Split)
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(
			"INSERT INTO draft_participants (draft_id, member_id, position, amount) VALUES ($1, $2, $3, $4)",
			draft.ID, row.MemberID, row.Position, row.Amount,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert draft participants: %w", err)
	}
	return nil
}

// CreateSession persists a new session.
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO sessions (id, member_id, remote_token, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)",
		session.ID, session.MemberID, session.RemoteToken, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, member_id, remote_token, created_at, expires_at FROM sessions WHERE id = $1",
		sessionID,
	).Scan(&session.ID, &session.MemberID, &session.RemoteToken, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at > 0 AND expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
