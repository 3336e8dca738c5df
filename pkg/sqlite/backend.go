// Package sqlite provides the public API for the SQLite snapshot store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/tokens/internal/sqlite"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// NewBackend creates a new SQLite snapshot store.
// The store is not attached; call Attach with a Config to initialize.
// A nil logger discards load diagnostics.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tokens-db",
//	})
//	defer store.Detach()
func NewBackend(logger *log.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
