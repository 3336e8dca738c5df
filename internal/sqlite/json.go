// JSON record structures for snapshots.jsonl.
package sqlite

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

// timeLayout is a fixed-width RFC 3339 layout; stored in UTC it sorts
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// snapshotJSON represents a snapshot in snapshots.jsonl.
type snapshotJSON struct {
	SnapshotID  string          `json:"snapshot_id"`
	Label       string          `json:"label"`
	Digest      string          `json:"digest"`
	CreatedAt   string          `json:"created_at"`
	Declaration json.RawMessage `json:"declaration"`
}

// dehydrateSnapshot converts a stored row into its JSONL record.
func dehydrateSnapshot(id, label, digest, createdAt, declaration string) (json.RawMessage, error) {
	rec := snapshotJSON{
		SnapshotID:  id,
		Label:       label,
		Digest:      digest,
		CreatedAt:   createdAt,
		Declaration: json.RawMessage(declaration),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot %s: %w", id, err)
	}
	return b, nil
}

// hydrateSnapshot converts a stored row into a types.Snapshot.
func hydrateSnapshot(id, label, digest, createdAt, declaration string) (*types.Snapshot, error) {
	s := &types.Snapshot{SnapshotID: id, Label: label, Digest: digest}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", id, err)
	}
	s.CreatedAt = t
	if err := json.Unmarshal([]byte(declaration), &s.Declaration); err != nil {
		return nil, fmt.Errorf("decoding declaration of %s: %w", id, err)
	}
	return s, nil
}

// canonicalDeclaration returns the canonical JSON encoding of decl and its
// SHA-256 digest. Ordered mappings encode in declaration order, so equal
// declarations yield equal digests.
func canonicalDeclaration(decl types.Declaration) (string, string, error) {
	b, err := json.Marshal(decl)
	if err != nil {
		return "", "", fmt.Errorf("encoding declaration: %w", err)
	}
	sum := sha256.Sum256(b)
	return string(b), hex.EncodeToString(sum[:]), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
