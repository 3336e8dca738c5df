// JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// loadStats counts the records read from snapshots.jsonl.
type loadStats struct {
	loaded  int
	skipped int
}

// loadSnapshotsJSONL reads snapshots.jsonl from dataDir and inserts every
// snapshot and its tokens into SQLite. Loading is transactional: all
// succeed or the database remains empty. Malformed lines, records whose
// declaration no longer loads, and duplicate IDs are skipped. Unknown
// fields are ignored.
func loadSnapshotsJSONL(db *sql.DB, dataDir string) (loadStats, error) {
	var stats loadStats

	records, skipped, err := readJSONL(filepath.Join(dataDir, snapshotsFile))
	if err != nil {
		return stats, fmt.Errorf("reading %s: %w", snapshotsFile, err)
	}
	stats.skipped = skipped

	tx, err := db.Begin()
	if err != nil {
		return stats, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		s, ok := decodeRecord(rec)
		if !ok {
			stats.skipped++
			continue
		}
		if err := insertRecord(tx, s); err != nil {
			stats.skipped++
			continue
		}
		stats.loaded++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing load transaction: %w", err)
	}
	return stats, nil
}

// insertRecord inserts one snapshot inside a savepoint so that a record
// failing halfway leaves no rows behind.
func insertRecord(tx *sql.Tx, s storedSnapshot) error {
	if _, err := tx.Exec("SAVEPOINT record"); err != nil {
		return err
	}
	if err := insertSnapshot(tx, s); err != nil {
		_, _ = tx.Exec("ROLLBACK TO record")
		_, _ = tx.Exec("RELEASE record")
		return err
	}
	_, err := tx.Exec("RELEASE record")
	return err
}

// decodeRecord turns one JSONL record into a snapshot ready for insertion,
// re-validating its declaration.
func decodeRecord(rec json.RawMessage) (storedSnapshot, bool) {
	var r snapshotJSON
	if err := json.Unmarshal(rec, &r); err != nil {
		return storedSnapshot{}, false
	}
	if r.SnapshotID == "" || len(r.Declaration) == 0 {
		return storedSnapshot{}, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return storedSnapshot{}, false
	}

	var decl types.Declaration
	if err := json.Unmarshal(r.Declaration, &decl); err != nil {
		return storedSnapshot{}, false
	}
	tbl, err := theme.Load(decl)
	if err != nil {
		return storedSnapshot{}, false
	}

	return storedSnapshot{
		id:        r.SnapshotID,
		label:     r.Label,
		createdAt: createdAt,
		table:     tbl,
	}, true
}
