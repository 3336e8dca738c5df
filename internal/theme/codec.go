package theme

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Supported file formats for theme declarations.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatJS   = "js"
)

// ErrUnknownFormat is returned for a format name or file extension that has
// no codec.
var ErrUnknownFormat = errors.New("unknown theme format")

// jsHeader precedes the object literal in the config module form.
const jsHeader = "/** @type {import('tailwindcss').Config} */\nmodule.exports = "

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".js", ".cjs", ".mjs":
		return FormatJS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Decode reads a declaration in the given format. The JS form accepts a
// config module whose exported value is a plain object literal with quoted
// or bare keys and single- or double-quoted strings.
func Decode(r io.Reader, format string) (types.Declaration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Declaration{}, fmt.Errorf("reading declaration: %w", err)
	}

	var decl types.Declaration
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &decl)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&decl)
	case FormatJS:
		var body []byte
		body, err = objectLiteral(data)
		if err == nil {
			// A JS object literal of this shape is a YAML flow mapping.
			err = decodeYAML(body, &decl)
		}
	default:
		return types.Declaration{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return types.Declaration{}, fmt.Errorf("decoding %s declaration: %w", format, err)
	}
	return decl, nil
}

// decodeYAML decodes one YAML document into decl, rejecting keys that
// match no field. An empty document leaves decl zero.
func decodeYAML(data []byte, decl *types.Declaration) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(decl); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// objectLiteral strips comments and the export statement from a config
// module and returns the exported object literal.
func objectLiteral(src []byte) ([]byte, error) {
	text := stripComments(string(src))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, errors.New("no exported object literal")
	}
	prefix := strings.TrimSpace(text[:start])
	switch {
	case strings.HasPrefix(prefix, "module.exports"), strings.HasPrefix(prefix, "export default"):
	default:
		return nil, fmt.Errorf("unsupported export statement %q", prefix)
	}
	return []byte(text[start : end+1]), nil
}

// stripComments removes line and block comments outside string literals.
// Content globs such as "./**/*.html" contain comment openers, so quotes
// must be tracked.
func stripComments(s string) string {
	var (
		b     strings.Builder
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
			b.WriteByte(c)
		case strings.HasPrefix(s[i:], "//"):
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				return b.String()
			}
			i += j - 1
		case strings.HasPrefix(s[i:], "/*"):
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				return b.String()
			}
			i += 2 + j + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Encode writes decl in the given format.
func Encode(w io.Writer, decl types.Declaration, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(decl); err != nil {
			return fmt.Errorf("encoding yaml declaration: %w", err)
		}
		return enc.Close()
	case FormatJSON, FormatJS:
		data, err := json.MarshalIndent(decl, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s declaration: %w", format, err)
		}
		if format == FormatJS {
			if _, err := io.WriteString(w, jsHeader); err != nil {
				return err
			}
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadFile decodes the declaration at path, inferring the format from its
// extension, and loads it.
func LoadFile(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening theme: %w", err)
	}
	defer f.Close()

	decl, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Load(decl)
}

// DefaultYAML returns the built-in theme declaration in YAML form.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// DefaultDeclaration returns the built-in theme declaration.
func DefaultDeclaration() types.Declaration {
	decl, err := Decode(bytes.NewReader(defaultYAML), FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("theme: built-in declaration: %v", err))
	}
	return decl
}

// Default loads the built-in theme. It panics if the built-in declaration
// is malformed, which the package tests rule out.
func Default() *Table {
	t, err := Load(DefaultDeclaration())
	if err != nil {
		panic(fmt.Sprintf("theme: built-in theme: %v", err))
	}
	return t
}
