package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. Timestamps are fixed-width UTC text so that they sort
// chronologically.
const (
	createSnapshots = `CREATE TABLE snapshots (
    snapshot_id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    digest TEXT NOT NULL,
    created_at TEXT NOT NULL,
    declaration TEXT NOT NULL
);`

	createTokens = `CREATE TABLE tokens (
    snapshot_id TEXT NOT NULL,
    category TEXT NOT NULL,
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, category, name),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxSnapshotsLabel   = `CREATE INDEX idx_snapshots_label ON snapshots(label);`
	idxSnapshotsDigest  = `CREATE INDEX idx_snapshots_digest ON snapshots(digest);`
	idxSnapshotsCreated = `CREATE INDEX idx_snapshots_created ON snapshots(created_at);`
	idxTokensCategory   = `CREATE INDEX idx_tokens_category ON tokens(category, name);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSnapshots,
	createTokens,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSnapshotsLabel,
	idxSnapshotsDigest,
	idxSnapshotsCreated,
	idxTokensCategory,
}

// createSchema creates every table and index and enables foreign keys.
func createSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
