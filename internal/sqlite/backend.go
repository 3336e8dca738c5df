// Package sqlite implements the snapshot store. snapshots.jsonl in the data
// directory is the source of truth; SQLite is the query engine and is
// rebuilt from the JSONL file on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

// File names inside DataDir.
const (
	dbFile        = "tokens.db"
	snapshotsFile = "snapshots.jsonl"
)

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	logger   *log.Logger

	syncStrategy  string
	batchSize     int
	pendingWrites []pendingWrite
	batchMu       sync.Mutex // protects pendingWrites
}

var _ types.Store = (*Backend)(nil)

// pendingWrite is a deferred JSONL write queued under the on_close and
// batch sync strategies.
type pendingWrite struct {
	operation string // "save" or "delete"
	id        string
	persist   func() error
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for load diagnostics. The default
// discards output.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, creates an empty snapshots.jsonl
// when missing, and rebuilds the SQLite database from it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a cache of the JSONL file and always starts fresh.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps transactions and PRAGMAs on one handle.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	if err := initJSONL(filepath.Join(dataDir, snapshotsFile)); err != nil {
		db.Close()
		return err
	}

	stats, err := loadSnapshotsJSONL(db, dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if stats.skipped > 0 {
		b.logger.Warn("skipped unreadable snapshot records", "file", snapshotsFile, "skipped", stats.skipped)
	}
	b.logger.Debug("store attached", "dir", dataDir, "snapshots", stats.loaded)

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.batchSize = config.EffectiveBatchSize()
	b.pendingWrites = nil
	b.attached = true
	return nil
}

// Detach flushes pending writes and releases all resources held by the
// backend. After Detach, all operations return ErrStoreDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingWrites(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// generateUUID generates a new UUID v7 for snapshot IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// persistOrQueue writes snapshots.jsonl now under the immediate strategy,
// or queues the write. The caller must hold b.mu.
func (b *Backend) persistOrQueue(operation, id string) error {
	if b.shouldPersistImmediately() {
		return b.persistSnapshotsJSONL()
	}
	return b.queueWrite(operation, id, b.persistSnapshotsJSONL)
}

// shouldPersistImmediately reports whether JSONL writes happen on every
// operation.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// queueWrite adds a write to the pending queue. Under the batch strategy
// the queue is flushed once it reaches the batch size.
// The caller must hold b.mu.
func (b *Backend) queueWrite(operation, id string, persist func() error) error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	b.pendingWrites = append(b.pendingWrites, pendingWrite{
		operation: operation,
		id:        id,
		persist:   persist,
	})

	if b.syncStrategy == types.SyncBatch && len(b.pendingWrites) >= b.batchSize {
		return b.flushPendingWritesLocked()
	}
	return nil
}

// flushPendingWrites executes all queued writes.
// The caller must hold b.mu.
func (b *Backend) flushPendingWrites() error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	return b.flushPendingWritesLocked()
}

// flushPendingWritesLocked executes all queued writes. Every write rewrites
// the whole file, so one persist covers the queue.
// The caller must hold b.batchMu.
func (b *Backend) flushPendingWritesLocked() error {
	if len(b.pendingWrites) == 0 {
		return nil
	}
	last := b.pendingWrites[len(b.pendingWrites)-1]
	if err := last.persist(); err != nil {
		return fmt.Errorf("flush %s %s: %w", last.operation, last.id, err)
	}
	b.logger.Debug("flushed pending writes", "count", len(b.pendingWrites))
	b.pendingWrites = nil
	return nil
}
