// Package reload keeps a current token table and replaces it when the
// theme file changes on disk.
package reload

import (
	"sync/atomic"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// Holder publishes the current table. Readers never block and always see
// a complete table, either the one before a swap or the one after.
type Holder struct {
	current atomic.Pointer[theme.Table]
}

var _ types.TokenTable = (*Holder)(nil)

// NewHolder returns a Holder publishing t.
func NewHolder(t *theme.Table) *Holder {
	h := &Holder{}
	h.current.Store(t)
	return h
}

// Load returns the current table.
func (h *Holder) Load() *theme.Table {
	return h.current.Load()
}

// Swap publishes t and returns the table it replaces.
func (h *Holder) Swap(t *theme.Table) *theme.Table {
	return h.current.Swap(t)
}

// Get looks name up in the current table.
func (h *Holder) Get(category, name string) (any, error) {
	return h.Load().Get(category, name)
}

// Names lists category in the current table.
func (h *Holder) Names(category string) ([]string, error) {
	return h.Load().Names(category)
}

// Declaration serializes the current table.
func (h *Holder) Declaration() types.Declaration {
	return h.Load().Declaration()
}
