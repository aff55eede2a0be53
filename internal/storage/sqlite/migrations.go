package sqlite

import "database/sql"

// schema sets up the database on startup.
// draft_participants must be created after drafts due to the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    owner_id INTEGER NOT NULL,
    group_id INTEGER NOT NULL,
    expense_id INTEGER NOT NULL DEFAULT 0,
    title TEXT NOT NULL DEFAULT '',
    paid_by INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    expense_date TEXT NOT NULL DEFAULT '',
    amount_text TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_participants (
    draft_id TEXT NOT NULL,
    member_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    amount TEXT,
    PRIMARY KEY (draft_id, member_id),
    FOREIGN KEY (draft_id) REFERENCES drafts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    member_id INTEGER NOT NULL,
    remote_token TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drafts_owner_id ON drafts(owner_id, group_id);
CREATE INDEX IF NOT EXISTS idx_draft_participants_draft_id ON draft_participants(draft_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
