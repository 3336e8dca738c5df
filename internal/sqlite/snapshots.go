package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// storedSnapshot is a validated snapshot on its way into the database.
type storedSnapshot struct {
	id        string
	label     string
	createdAt time.Time
	table     *theme.Table
}

// insertSnapshot writes one snapshot row and one row per token.
func insertSnapshot(tx *sql.Tx, s storedSnapshot) error {
	declaration, digest, err := canonicalDeclaration(s.table.Declaration())
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO snapshots (snapshot_id, label, digest, created_at, declaration)
		VALUES (?, ?, ?, ?, ?)`,
		s.id, s.label, digest, formatTime(s.createdAt), declaration)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO tokens (snapshot_id, category, name, ordinal, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing token insert: %w", err)
	}
	defer stmt.Close()

	for _, category := range types.StandardCategories {
		entries, err := s.table.Entries(category)
		if err != nil {
			return err
		}
		for i, e := range entries {
			value, err := json.Marshal(e.Value)
			if err != nil {
				return fmt.Errorf("encoding %s.%s: %w", category, e.Name, err)
			}
			if _, err := stmt.Exec(s.id, category, e.Name, i, string(value)); err != nil {
				return fmt.Errorf("inserting token %s.%s: %w", category, e.Name, err)
			}
		}
	}
	return nil
}

// Save validates decl by loading it and stores the loaded declaration
// with one row per token. Returns the new snapshot ID.
func (b *Backend) Save(label string, decl types.Declaration) (string, error) {
	tbl, err := theme.Load(decl)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}

	s := storedSnapshot{
		id:        generateUUID(),
		label:     strings.TrimSpace(label),
		createdAt: time.Now(),
		table:     tbl,
	}

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if err := insertSnapshot(tx, s); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing save: %w", err)
	}

	if err := b.persistOrQueue("save", s.id); err != nil {
		return "", err
	}
	return s.id, nil
}

// Get retrieves a snapshot by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Get(id string) (*types.Snapshot, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var label, digest, createdAt, declaration string
	err := b.db.QueryRow(`SELECT label, digest, created_at, declaration
		FROM snapshots WHERE snapshot_id = ?`, id).
		Scan(&label, &digest, &createdAt, &declaration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return hydrateSnapshot(id, label, digest, createdAt, declaration)
}

// Fetch returns the snapshots matching filter, oldest first. Supported
// keys are "label" and "digest" (string) and "limit" (int). An empty
// filter matches all.
func (b *Backend) Fetch(filter map[string]any) ([]*types.Snapshot, error) {
	query := "SELECT snapshot_id, label, digest, created_at, declaration FROM snapshots"
	var conditions []string
	var args []any

	for _, key := range []string{"label", "digest"} {
		raw, ok := filter[key]
		if !ok {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, key+" = ?")
		args = append(args, v)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	if limit, ok := filter["limit"]; ok {
		l, ok := toInt(limit)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if l > 0 {
			query += fmt.Sprintf(" LIMIT %d", l)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshots: %w", err)
	}
	defer rows.Close()

	results := []*types.Snapshot{}
	for rows.Next() {
		var id, label, digest, createdAt, declaration string
		if err := rows.Scan(&id, &label, &digest, &createdAt, &declaration); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s, err := hydrateSnapshot(id, label, digest, createdAt, declaration)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// Delete removes a snapshot and its tokens.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tokens WHERE snapshot_id = ?", id); err != nil {
		return fmt.Errorf("deleting tokens: %w", err)
	}
	res, err := tx.Exec("DELETE FROM snapshots WHERE snapshot_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return b.persistOrQueue("delete", id)
}

// tokenKey identifies a token within a snapshot.
type tokenKey struct {
	category string
	name     string
}

// Diff compares the tokens of two snapshots. Changes are ordered by
// category in standard order, then by name.
func (b *Backend) Diff(fromID, toID string) ([]types.TokenChange, error) {
	if fromID == "" || toID == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	from, err := b.snapshotTokens(fromID)
	if err != nil {
		return nil, err
	}
	to, err := b.snapshotTokens(toID)
	if err != nil {
		return nil, err
	}

	keys := lo.Uniq(append(lo.Keys(from), lo.Keys(to)...))
	slices.SortFunc(keys, func(x, y tokenKey) int {
		xi := lo.IndexOf(types.StandardCategories, x.category)
		yi := lo.IndexOf(types.StandardCategories, y.category)
		if xi != yi {
			return xi - yi
		}
		return strings.Compare(x.name, y.name)
	})

	changes := []types.TokenChange{}
	for _, k := range keys {
		before, inFrom := from[k]
		after, inTo := to[k]
		change := types.TokenChange{Category: k.category, Name: k.name, Before: before, After: after}
		switch {
		case !inFrom:
			change.Kind = types.ChangeAdded
		case !inTo:
			change.Kind = types.ChangeRemoved
		case before != after:
			change.Kind = types.ChangeChanged
		default:
			continue
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// snapshotTokens returns the JSON-encoded token values of a snapshot.
// The caller must hold b.mu.
func (b *Backend) snapshotTokens(id string) (map[tokenKey]string, error) {
	var exists int
	err := b.db.QueryRow("SELECT 1 FROM snapshots WHERE snapshot_id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("checking snapshot: %w", err)
	}

	rows, err := b.db.Query("SELECT category, name, value FROM tokens WHERE snapshot_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("reading tokens: %w", err)
	}
	defer rows.Close()

	out := make(map[tokenKey]string)
	for rows.Next() {
		var k tokenKey
		var value string
		if err := rows.Scan(&k.category, &k.name, &value); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		out[k] = value
	}
	return out, rows.Err()
}

// toInt converts a numeric filter value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
