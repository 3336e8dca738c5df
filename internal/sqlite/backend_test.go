// Tests for the store lifecycle and sync strategies.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

func attach(t *testing.T, config types.Config) *Backend {
	t.Helper()
	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database and JSONL files created
	for _, name := range []string{dbFile, snapshotsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	b := attach(t, types.Config{Backend: types.BackendSQLite, DataDir: dir})
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(dir, snapshotsFile)); err != nil {
		t.Fatalf("expected %s in new data dir: %v", snapshotsFile, err)
	}
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	if err != types.ErrBackendUnknown {
		t.Fatalf("expected ErrBackendUnknown, got %v", err)
	}

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SyncStrategy: "hourly"})
	if err != types.ErrSyncStrategyUnknown {
		t.Fatalf("expected ErrSyncStrategyUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := attach(t, types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	if _, err := b.Save("after", theme.DefaultDeclaration()); err != types.ErrStoreDetached {
		t.Errorf("Save: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Get("some-id"); err != types.ErrStoreDetached {
		t.Errorf("Get: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Fetch(nil); err != types.ErrStoreDetached {
		t.Errorf("Fetch: expected ErrStoreDetached, got %v", err)
	}
	if err := b.Delete("some-id"); err != types.ErrStoreDetached {
		t.Errorf("Delete: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Diff("a", "b"); err != types.ErrStoreDetached {
		t.Errorf("Diff: expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_ReattachAfterDetach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := attach(t, config)
	id, err := b.Save("first", theme.DefaultDeclaration())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := b.Get(id); err != nil {
		t.Fatalf("Get after re-attach failed: %v", err)
	}
}

func readFileSize(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read %s failed: %v", filepath.Base(path), err)
	}
	return len(data)
}

func TestSyncStrategy_ImmediateDefault(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	defer b.Detach()

	if b.syncStrategy != types.SyncImmediate {
		t.Errorf("Default sync strategy should be 'immediate', got %q", b.syncStrategy)
	}

	if _, err := b.Save("immediate", theme.DefaultDeclaration()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if readFileSize(t, filepath.Join(tmpDir, snapshotsFile)) == 0 {
		t.Error("snapshots.jsonl should contain data with immediate sync strategy")
	}
}

func TestSyncStrategy_OnClose_DefersWrites(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      tmpDir,
		SyncStrategy: types.SyncOnClose,
	})

	for i := 0; i < 3; i++ {
		if _, err := b.Save("deferred", theme.DefaultDeclaration()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	path := filepath.Join(tmpDir, snapshotsFile)
	if n := readFileSize(t, path); n > 0 {
		t.Errorf("snapshots.jsonl should be empty before Detach, got %d bytes", n)
	}

	b.batchMu.Lock()
	pendingCount := len(b.pendingWrites)
	b.batchMu.Unlock()
	if pendingCount != 3 {
		t.Errorf("expected 3 pending writes, got %d", pendingCount)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if readFileSize(t, path) == 0 {
		t.Error("snapshots.jsonl should contain data after Detach")
	}

	// The flushed file reloads into the same snapshots.
	b = attach(t, types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	defer b.Detach()
	all, err := b.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 snapshots after reload, got %d", len(all))
	}
}

func TestSyncStrategy_Batch_FlushAtThreshold(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      tmpDir,
		SyncStrategy: types.SyncBatch,
		BatchSize:    3,
	})
	defer b.Detach()

	path := filepath.Join(tmpDir, snapshotsFile)
	for i := 0; i < 2; i++ {
		if _, err := b.Save("batch", theme.DefaultDeclaration()); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}
	if n := readFileSize(t, path); n > 0 {
		t.Errorf("snapshots.jsonl should be empty below the threshold, got %d bytes", n)
	}

	if _, err := b.Save("threshold", theme.DefaultDeclaration()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if readFileSize(t, path) == 0 {
		t.Error("snapshots.jsonl should contain data after batch threshold reached")
	}

	b.batchMu.Lock()
	defer b.batchMu.Unlock()
	if len(b.pendingWrites) != 0 {
		t.Errorf("queue should be empty after flush, got %d", len(b.pendingWrites))
	}
}

func TestSyncStrategy_Batch_FlushOnDetach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      tmpDir,
		SyncStrategy: types.SyncBatch,
	})

	if _, err := b.Save("one", theme.DefaultDeclaration()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	path := filepath.Join(tmpDir, snapshotsFile)
	if n := readFileSize(t, path); n > 0 {
		t.Errorf("snapshots.jsonl should be empty before Detach, got %d bytes", n)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if readFileSize(t, path) == 0 {
		t.Error("snapshots.jsonl should contain data after Detach")
	}
}

func TestSyncStrategy_Delete_RespectsStrategy(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := attach(t, config)
	id, err := b.Save("doomed", theme.DefaultDeclaration())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	b.Detach()

	config.SyncStrategy = types.SyncOnClose
	b = attach(t, config)
	if err := b.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	path := filepath.Join(tmpDir, snapshotsFile)
	if readFileSize(t, path) == 0 {
		t.Error("deleted record should remain on disk until Detach under on_close")
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if n := readFileSize(t, path); n != 0 {
		t.Errorf("snapshots.jsonl should be empty after Detach, got %d bytes", n)
	}
}
