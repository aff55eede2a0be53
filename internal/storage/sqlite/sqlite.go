// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitfree/internal/models"
	"github.com/mmynk/splitfree/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDraft persists a new draft to the database.
func (s *SQLiteStore) CreateDraft(ctx context.Context, draft *models.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if draft.CreatedAt == 0 {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, draft.OwnerID, draft.GroupID, draft.ExpenseID, draft.Title, draft.PaidBy,
		draft.Notes, draft.Date, draft.Split.AmountText, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}

	if err := insertParticipants(ctx, tx, draft); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by ID, including its participants and allocation.
func (s *SQLiteStore) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	draft := &models.Draft{}
	var amountText string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at
		 FROM drafts WHERE id = ?`,
		draftID,
	).Scan(&draft.ID, &draft.OwnerID, &draft.GroupID, &draft.ExpenseID, &draft.Title, &draft.PaidBy,
		&draft.Notes, &draft.Date, &amountText, &draft.CreatedAt, &draft.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
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
func (s *SQLiteStore) UpdateDraft(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE drafts SET title = ?, paid_by = ?, notes = ?, expense_date = ?, amount_text = ?, updated_at = ?
		 WHERE id = ?`,
		draft.Title, draft.PaidBy, draft.Notes, draft.Date, draft.Split.AmountText, draft.UpdatedAt, draft.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %s: %w", draft.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM draft_participants WHERE draft_id = ?", draft.ID); err != nil {
		return fmt.Errorf("failed to clear draft participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, draft); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteDraft removes a draft and its participants.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, draftID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM draft_participants WHERE draft_id = ?", draftID); err != nil {
		return fmt.Errorf("failed to delete draft participants: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", draftID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %s: %w", draftID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListDrafts returns the owner's drafts, newest first.
func (s *SQLiteStore) ListDrafts(ctx context.Context, ownerID, groupID int64) ([]*models.Draft, error) {
	query := `SELECT id, owner_id, group_id, expense_id, title, paid_by, notes, expense_date, amount_text, created_at, updated_at
		 FROM drafts WHERE owner_id = ?`
	args := []any{ownerID}
	if groupID != 0 {
		query += " AND group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY updated_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
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

	// Participants are loaded after the cursor is closed; the pool holds a single connection.
	for i, draft := range drafts {
		if err := s.loadSplit(ctx, draft, amountTexts[i]); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

func (s *SQLiteStore) loadSplit(ctx context.Context, draft *models.Draft, amountText string) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, position, amount FROM draft_participants WHERE draft_id = ? ORDER BY position",
		draft.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get draft participants: %w", err)
	}
	defer rows.Close()

	var participants []storage.ParticipantRow
	for rows.Next() {
		var row storage.ParticipantRow
		var amount sql.NullString
		if err := rows.Scan(&row.MemberID, &row.Position, &amount); err != nil {
			return fmt.Errorf("failed to scan draft participant: %w", err)
		}
		if amount.Valid {
			row.Amount = &amount.String
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

func insertParticipants(ctx context.Context, tx *sql.Tx, draft *models.Draft) error {
	for _, row := range storage.SplitRows(draft.Split) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO draft_participants (draft_id, member_id, position, amount) VALUES (?, ?, ?, ?)",
			draft.ID, row.MemberID, row.Position, row.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert draft participant: %w", err)
		}
	}
	return nil
}
