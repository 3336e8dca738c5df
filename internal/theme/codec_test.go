package theme

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"theme.yaml", FormatYAML, false},
		{"theme.YML", FormatYAML, false},
		{"dir/theme.json", FormatJSON, false},
		{"tailwind.config.js", FormatJS, false},
		{"tailwind.config.cjs", FormatJS, false},
		{"theme.toml", "", true},
		{"theme", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFileConfigModule(t *testing.T) {
	tbl, err := LoadFile(filepath.Join("testdata", "tailwind.config.js"))
	require.NoError(t, err)
	assert.Equal(t, Default().Declaration(), tbl.Declaration())

	v, err := tbl.Get(types.CategoryColors, "accent-green")
	require.NoError(t, err)
	assert.Equal(t, "#22c55e", v)
}

func TestDefaultDeclarationIsExtendOnly(t *testing.T) {
	decl := DefaultDeclaration()
	assert.Zero(t, decl.Theme.Tokens.Len())
	assert.Equal(t, 51, decl.Theme.Extend.Len())
	assert.Equal(t, Default().Len(), decl.Theme.Extend.Len())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := Default().Declaration()

	for _, format := range []string{FormatYAML, FormatJSON, FormatJS} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, want, format))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			tbl, err := Load(got)
			require.NoError(t, err)
			names, err := tbl.Names(types.CategoryColors)
			require.NoError(t, err)
			assert.Equal(t, "primary-blue", names[0])
			assert.Equal(t, "purple-600", names[len(names)-1])
		})
	}
}

func TestEncodeKeepsDeclarationOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default().Declaration(), FormatJSON))
	out := buf.String()

	first := strings.Index(out, `"primary-blue"`)
	last := strings.Index(out, `"purple-600"`)
	require.True(t, first >= 0 && last >= 0)
	assert.Less(t, first, last)
	assert.Less(t, strings.Index(out, `"fadeIn"`), strings.Index(out, `"bounceSoft"`))
}

func TestEncodeJSHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default().Declaration(), FormatJS))
	assert.True(t, strings.HasPrefix(buf.String(), "/** @type {import('tailwindcss').Config} */\nmodule.exports = {"))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"unknown json field", FormatJSON, `{"content": [], "theme": {}, "plugins": [], "darkMode": "class"}`},
		{"duplicate json color", FormatJSON, `{"theme": {"extend": {"colors": {"a": "#000000", "a": "#111111"}}}}`},
		{"duplicate yaml color", FormatYAML, "theme:\n  extend:\n    colors:\n      a: \"#000000\"\n      a: \"#111111\"\n"},
		{"yaml category not a mapping", FormatYAML, "theme:\n  extend:\n    colors: [red]\n"},
		{"misspelled yaml category", FormatYAML, "theme:\n  extend:\n    colours:\n      brand: '#zzzzzz'\n"},
		{"misspelled yaml theme", FormatYAML, "them:\n  extend:\n    colors:\n      brand: '#zzzzzz'\n"},
		{"unsupported yaml top-level key", FormatYAML, "darkMode: class\n"},
		{"unsupported js category", FormatJS, "module.exports = { theme: { screens: { sm: '640px' } } }"},
		{"misspelled js extend", FormatJS, "module.exports = { theme: { extends: { colors: { a: '#000000' } } } }"},
		{"js without export", FormatJS, `const config = { content: [] }`},
		{"js without object", FormatJS, `module.exports = require('./base')`},
		{"unknown format", "toml", `content = []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	for _, input := range []string{"", "\n"} {
		decl, err := Decode(strings.NewReader(input), FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, types.Declaration{}, decl)
	}
}

func TestDecodeJSVariants(t *testing.T) {
	src := `// theme for the docs site
export default {
  /* scanned templates */
  content: ['./docs/**/*.md'],
  theme: {
    colors: { ink: '#111111' },
    extend: {
      colors: { "ink": "#222222", paper: '#fafafa' },
    },
  },
  plugins: ['forms'],
}
`
	decl, err := Decode(strings.NewReader(src), FormatJS)
	require.NoError(t, err)
	assert.Equal(t, []string{"./docs/**/*.md"}, decl.Content)
	assert.Equal(t, []string{"forms"}, decl.Plugins)

	tbl, err := Load(decl)
	require.NoError(t, err)
	v, err := tbl.Get(types.CategoryColors, "ink")
	require.NoError(t, err)
	assert.Equal(t, "#222222", v)
	names, err := tbl.Names(types.CategoryColors)
	require.NoError(t, err)
	assert.Equal(t, []string{"ink", "paper"}, names)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("theme:\n  extend:\n    colors:\n      brand: blue\n"), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, types.ErrMalformedToken)
	assert.ErrorIs(t, err, types.ErrInvalidColor)
}

func TestDefaultYAMLIsACopy(t *testing.T) {
	b := DefaultYAML()
	b[0] = 'X'
	assert.NotEqual(t, b[0], DefaultYAML()[0])
}
