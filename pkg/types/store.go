package types

import (
	"errors"
	"time"
)

// Snapshot is a validated theme declaration persisted by a Store.
type Snapshot struct {
	SnapshotID  string      `json:"snapshot_id"` // UUID v7, generated on save.
	Label       string      `json:"label"`
	Digest      string      `json:"digest"` // SHA-256 of the canonical JSON declaration.
	CreatedAt   time.Time   `json:"created_at"`
	Declaration Declaration `json:"declaration"`
}

// Kinds of TokenChange.
const (
	ChangeAdded   = "added"
	ChangeRemoved = "removed"
	ChangeChanged = "changed"
)

// TokenChange describes how one token differs between two snapshots.
// Before and After hold the JSON encoding of the values.
type TokenChange struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Before   string `json:"before,omitempty"`
	After    string `json:"after,omitempty"`
}

// Store persists theme snapshots. Callers attach to a backend, save and
// query snapshots, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases backend resources.
	// Idempotent. After Detach, operations return ErrStoreDetached.
	Detach() error

	// Save validates decl by loading it and persists the merged result.
	// Returns the new snapshot ID.
	Save(label string, decl Declaration) (string, error)

	// Get retrieves a snapshot by ID. Returns ErrNotFound if absent.
	Get(id string) (*Snapshot, error)

	// Fetch returns the snapshots matching filter, oldest first. Supported
	// keys are "label" and "digest"; an empty filter returns every snapshot.
	Fetch(filter map[string]any) ([]*Snapshot, error)

	// Delete removes a snapshot. Returns ErrNotFound if absent.
	Delete(id string) error

	// Diff compares the tokens of two snapshots, ordered by category then
	// name.
	Diff(fromID, toID string) ([]TokenChange, error)
}

// Store lifecycle and operation errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotFound        = errors.New("snapshot not found")
	ErrInvalidID       = errors.New("invalid snapshot ID")
	ErrInvalidFilter   = errors.New("invalid filter value type")
)
