package theme

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

// minimalDecl returns a small valid declaration that tests mutate.
func minimalDecl() types.Declaration {
	return types.Declaration{
		Content: []string{"./templates/**/*.html"},
		Theme: types.ThemeSection{
			Extend: types.Tokens{
				Colors:       types.Ordered[string]{{Name: "brand", Value: "#1e40af"}},
				FontFamily:   types.Ordered[[]string]{{Name: "sans", Value: []string{"Inter", "sans-serif"}}},
				Spacing:      types.Ordered[string]{{Name: "18", Value: "4.5rem"}},
				BorderRadius: types.Ordered[string]{{Name: "xl", Value: "0.75rem"}},
				BoxShadow:    types.Ordered[string]{{Name: "glow", Value: "0 0 20px rgba(34, 197, 94, 0.3)"}},
				Animation:    types.Ordered[string]{{Name: "fade-in", Value: "fadeIn 0.5s ease-in-out"}},
				Keyframes: types.Ordered[types.Keyframes]{{
					Name: "fadeIn",
					Value: types.Keyframes{
						{Name: "0%", Value: types.Properties{{Name: "opacity", Value: "0"}}},
						{Name: "100%", Value: types.Properties{{Name: "opacity", Value: "1"}}},
					},
				}},
			},
		},
	}
}

func malformedErrors(t *testing.T, err error) []*types.MalformedTokenError {
	t.Helper()
	require.Error(t, err)
	var out []*types.MalformedTokenError
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected joined errors, got %T", err)
	for _, e := range joined.Unwrap() {
		var m *types.MalformedTokenError
		require.True(t, errors.As(e, &m), "unexpected error %v", e)
		out = append(out, m)
	}
	return out
}

func TestDefaultTheme(t *testing.T) {
	tbl := Default()

	t.Run("accent-green", func(t *testing.T) {
		v, err := tbl.Get(types.CategoryColors, "accent-green")
		require.NoError(t, err)
		assert.Equal(t, "#22c55e", v)
	})

	t.Run("bounce-soft references bounceSoft", func(t *testing.T) {
		v, err := tbl.Get(types.CategoryAnimation, "bounce-soft")
		require.NoError(t, err)
		assert.Equal(t, "bounceSoft 0.6s ease-in-out", v)

		a, err := tbl.Animation("bounce-soft")
		require.NoError(t, err)
		assert.Equal(t, []string{"bounceSoft"}, a.KeyframeNames())

		kf, err := tbl.Get(types.CategoryKeyframes, "bounceSoft")
		require.NoError(t, err)
		frames := kf.(types.Keyframes)
		assert.Equal(t, []string{"0%, 100%", "50%"}, frames.Names())
	})

	t.Run("every color is #RRGGBB", func(t *testing.T) {
		names, err := tbl.Names(types.CategoryColors)
		require.NoError(t, err)
		assert.Len(t, names, 35)
		for _, n := range names {
			v, err := tbl.Get(types.CategoryColors, n)
			require.NoError(t, err)
			assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, v, n)
		}
	})

	t.Run("every animation resolves its keyframes", func(t *testing.T) {
		names, err := tbl.Names(types.CategoryAnimation)
		require.NoError(t, err)
		for _, n := range names {
			a, err := tbl.Animation(n)
			require.NoError(t, err)
			for _, kf := range a.KeyframeNames() {
				_, err := tbl.Keyframes(kf)
				assert.NoError(t, err, "%s -> %s", n, kf)
			}
		}
	})

	t.Run("every keyframe selector is valid", func(t *testing.T) {
		names, err := tbl.Names(types.CategoryKeyframes)
		require.NoError(t, err)
		assert.Equal(t, []string{"fadeIn", "slideUp", "bounceSoft"}, names)
		for _, n := range names {
			kf, err := tbl.Keyframes(n)
			require.NoError(t, err)
			for _, sel := range kf.Names() {
				assert.NoError(t, validateSelector(sel), "%s %q", n, sel)
			}
		}
	})

	t.Run("font stacks keep fallback order", func(t *testing.T) {
		v, err := tbl.Get(types.CategoryFontFamily, "display")
		require.NoError(t, err)
		assert.Equal(t, []string{"Poppins", "system-ui", "sans-serif"}, v)
	})

	t.Run("typed accessors", func(t *testing.T) {
		c, err := tbl.Color("white")
		require.NoError(t, err)
		assert.Equal(t, types.Color{Hex: "#ffffff", R: 255, G: 255, B: 255}, c)
		assert.False(t, c.IsDark())

		black, err := tbl.Color("black")
		require.NoError(t, err)
		assert.True(t, black.IsDark())

		s, err := tbl.Spacing("128")
		require.NoError(t, err)
		assert.Equal(t, types.Length{Value: 32, Unit: "rem"}, s)

		r, err := tbl.BorderRadius("2xl")
		require.NoError(t, err)
		assert.Equal(t, types.Length{Value: 1, Unit: "rem"}, r)

		sh, err := tbl.BoxShadow("soft")
		require.NoError(t, err)
		assert.Len(t, sh.Layers, 2)
	})

	t.Run("content and plugins", func(t *testing.T) {
		assert.Equal(t, []string{"./app/templates/**/*.html", "./app/static/**/*.js"}, tbl.Content())
		assert.Empty(t, tbl.Plugins())
		assert.NotNil(t, tbl.Plugins())
	})

	t.Run("categories in standard order", func(t *testing.T) {
		assert.Equal(t, types.StandardCategories, tbl.Categories())
	})
}

func TestGetUnknown(t *testing.T) {
	tbl := Default()
	before := tbl.Declaration()

	t.Run("unknown name", func(t *testing.T) {
		_, err := tbl.Get(types.CategoryColors, "no-such-color")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnknownToken)
		assert.NotErrorIs(t, err, types.ErrUnknownCategory)

		var u *types.UnknownTokenError
		require.ErrorAs(t, err, &u)
		assert.Equal(t, types.CategoryColors, u.Category)
		assert.Equal(t, "no-such-color", u.Name)
	})

	t.Run("name from another category", func(t *testing.T) {
		_, err := tbl.Get(types.CategorySpacing, "accent-green")
		assert.ErrorIs(t, err, types.ErrUnknownToken)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := tbl.Get("gradients", "sunset")
		assert.ErrorIs(t, err, types.ErrUnknownToken)
		assert.ErrorIs(t, err, types.ErrUnknownCategory)

		_, err = tbl.Names("gradients")
		assert.ErrorIs(t, err, types.ErrUnknownCategory)
	})

	t.Run("typed accessor", func(t *testing.T) {
		_, err := tbl.Animation("spin")
		assert.ErrorIs(t, err, types.ErrUnknownToken)
	})

	assert.Equal(t, before, tbl.Declaration(), "lookups must not modify the table")
}

func TestGetReturnsCopies(t *testing.T) {
	tbl := Default()

	fonts, err := tbl.FontFamily("sans")
	require.NoError(t, err)
	fonts[0] = "Comic Sans MS"

	kf, err := tbl.Keyframes("fadeIn")
	require.NoError(t, err)
	kf[0].Value[0].Value = "0.5"

	decl := tbl.Declaration()
	decl.Theme.Extend.Colors[0].Value = "#000000"

	again, err := tbl.FontFamily("sans")
	require.NoError(t, err)
	assert.Equal(t, "Inter", again[0])

	kf, err = tbl.Keyframes("fadeIn")
	require.NoError(t, err)
	assert.Equal(t, "0", kf[0].Value[0].Value)

	v, err := tbl.Get(types.CategoryColors, "primary-blue")
	require.NoError(t, err)
	assert.Equal(t, "#1e40af", v)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *types.Declaration)
		category string
		token    string
		reason   error
	}{
		{
			name:     "short hex color",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Colors[0].Value = "#12345" },
			category: types.CategoryColors, token: "brand", reason: types.ErrInvalidColor,
		},
		{
			name:     "named color",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Colors[0].Value = "blue" },
			category: types.CategoryColors, token: "brand", reason: types.ErrInvalidColor,
		},
		{
			name:     "negative spacing",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Spacing[0].Value = "-1rem" },
			category: types.CategorySpacing, token: "18", reason: types.ErrNegativeLength,
		},
		{
			name:     "radius without unit",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.BorderRadius[0].Value = "12" },
			category: types.CategoryBorderRadius, token: "xl", reason: types.ErrInvalidLength,
		},
		{
			name:     "bad shadow",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.BoxShadow[0].Value = "glowing" },
			category: types.CategoryBoxShadow, token: "glow", reason: types.ErrInvalidShadow,
		},
		{
			name:     "animation with undefined keyframes",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Animation[0].Value = "fadeOut 0.5s" },
			category: types.CategoryAnimation, token: "fade-in", reason: types.ErrUndefinedKeyframes,
		},
		{
			name:     "animation without keyframes name",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Animation[0].Value = "0.5s ease" },
			category: types.CategoryAnimation, token: "fade-in", reason: types.ErrInvalidAnimation,
		},
		{
			name:     "keyframe selector out of range",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Keyframes[0].Value[1].Name = "110%" },
			category: types.CategoryKeyframes, token: "fadeIn", reason: types.ErrInvalidSelector,
		},
		{
			name:     "keyframe without properties",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Keyframes[0].Value[1].Value = nil },
			category: types.CategoryKeyframes, token: "fadeIn", reason: types.ErrEmptyValue,
		},
		{
			name:     "empty font stack",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.FontFamily[0].Value = nil },
			category: types.CategoryFontFamily, token: "sans", reason: types.ErrEmptyFontStack,
		},
		{
			name:     "token name with whitespace",
			mutate:   func(d *types.Declaration) { d.Theme.Extend.Colors[0].Name = "brand blue" },
			category: types.CategoryColors, token: "brand blue", reason: types.ErrInvalidName,
		},
		{
			name:     "invalid content glob",
			mutate:   func(d *types.Declaration) { d.Content = []string{"app/[abc"} },
			category: types.FieldContent, token: "[0]", reason: types.ErrInvalidGlob,
		},
		{
			name:     "empty plugin name",
			mutate:   func(d *types.Declaration) { d.Plugins = []string{""} },
			category: types.FieldPlugins, token: "[0]", reason: types.ErrEmptyValue,
		},
		{
			name: "duplicate name within a section",
			mutate: func(d *types.Declaration) {
				d.Theme.Extend.Colors = append(d.Theme.Extend.Colors, types.Entry[string]{Name: "brand", Value: "#000000"})
			},
			category: types.CategoryColors, token: "brand", reason: types.ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := minimalDecl()
			tt.mutate(&decl)

			tbl, err := Load(decl)
			assert.Nil(t, tbl, "no partial table on failure")
			assert.ErrorIs(t, err, types.ErrMalformedToken)
			assert.ErrorIs(t, err, tt.reason)

			var m *types.MalformedTokenError
			require.ErrorAs(t, err, &m)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.token, m.Name)
		})
	}
}

func TestLoadReportsEveryViolation(t *testing.T) {
	decl := minimalDecl()
	decl.Theme.Extend.Colors[0].Value = "#zzzzzz"
	decl.Theme.Extend.Spacing[0].Value = "-4px"

	_, err := Load(decl)
	errs := malformedErrors(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, types.CategoryColors, errs[0].Category)
	assert.Equal(t, types.CategorySpacing, errs[1].Category)
	assert.Contains(t, err.Error(), `colors.brand = "#zzzzzz"`)
}

func TestLoadMergesExtend(t *testing.T) {
	decl := types.Declaration{
		Theme: types.ThemeSection{
			Tokens: types.Tokens{
				Colors: types.Ordered[string]{
					{Name: "a", Value: "#000000"},
					{Name: "b", Value: "#111111"},
				},
			},
			Extend: types.Tokens{
				Colors: types.Ordered[string]{
					{Name: "b", Value: "#222222"},
					{Name: "c", Value: "#333333"},
				},
			},
		},
	}

	tbl, err := Load(decl)
	require.NoError(t, err)

	names, err := tbl.Names(types.CategoryColors)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	v, err := tbl.Get(types.CategoryColors, "b")
	require.NoError(t, err)
	assert.Equal(t, "#222222", v)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{types.CategoryColors}, tbl.Categories())
}

func TestDeclarationRoundTrip(t *testing.T) {
	tbl := Default()

	again, err := Load(tbl.Declaration())
	require.NoError(t, err)
	assert.Equal(t, tbl.Declaration(), again.Declaration())

	for _, category := range types.StandardCategories {
		want, err := tbl.Entries(category)
		require.NoError(t, err)
		got, err := again.Entries(category)
		require.NoError(t, err)
		assert.Equal(t, want, got, category)
	}
}

func TestConcurrentReads(t *testing.T) {
	tbl := Default()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v, err := tbl.Get(types.CategoryColors, "accent-green")
				assert.NoError(t, err)
				assert.Equal(t, "#22c55e", v)
				_, err = tbl.Keyframes("slideUp")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
