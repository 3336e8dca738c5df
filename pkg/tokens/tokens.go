// Package tokens is the public entry point for loading theme token tables.
//
// A table is loaded once from a declaration, validated as a whole, and is
// read-only afterwards:
//
//	tbl, err := tokens.LoadFile("tailwind.config.js")
//	if err != nil {
//		return err
//	}
//	green, err := tbl.Get(types.CategoryColors, "accent-green")
package tokens

import (
	"io"

	"github.com/mesh-intelligence/tokens/internal/theme"
	"github.com/mesh-intelligence/tokens/pkg/types"
)

// Version is the module version reported by the CLI.
const Version = "0.1.0"

// Table is a loaded, immutable token table.
type Table = theme.Table

// Load validates decl and builds a table from it.
func Load(decl types.Declaration) (*Table, error) {
	return theme.Load(decl)
}

// LoadFile reads a YAML, JSON, or JS theme declaration and loads it.
func LoadFile(path string) (*Table, error) {
	return theme.LoadFile(path)
}

// Decode reads a declaration in format ("yaml", "json" or "js").
func Decode(r io.Reader, format string) (types.Declaration, error) {
	return theme.Decode(r, format)
}

// Encode writes decl in format ("yaml", "json" or "js").
func Encode(w io.Writer, decl types.Declaration, format string) error {
	return theme.Encode(w, decl, format)
}

// Default returns the built-in theme.
func Default() *Table {
	return theme.Default()
}
