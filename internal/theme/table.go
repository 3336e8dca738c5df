// Package theme loads theme declarations into immutable token tables.
// A Table is built once by Load, validated as a whole, and safe for
// unsynchronized concurrent reads afterwards.
package theme

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

// Table is an immutable, validated set of theme tokens.
type Table struct {
	content []string
	plugins []string
	tokens  types.Tokens

	colors     map[string]types.Color
	spacing    map[string]types.Length
	radii      map[string]types.Length
	shadows    map[string]types.Shadow
	animations map[string]types.Animation
}

var _ types.TokenTable = (*Table)(nil)

// Load validates decl and builds a Table from it. Categories under
// theme.extend are merged on top of those declared directly under theme.
// Every violation is reported as a *types.MalformedTokenError, joined in
// category then declaration order. No table is returned on failure.
func Load(decl types.Declaration) (*Table, error) {
	t := &Table{
		content:    append([]string(nil), decl.Content...),
		plugins:    append([]string(nil), decl.Plugins...),
		tokens:     decl.Theme.Tokens.Merge(decl.Theme.Extend),
		colors:     make(map[string]types.Color),
		spacing:    make(map[string]types.Length),
		radii:      make(map[string]types.Length),
		shadows:    make(map[string]types.Shadow),
		animations: make(map[string]types.Animation),
	}

	var errs []error
	malformed := func(category, name, value string, err error) {
		errs = append(errs, &types.MalformedTokenError{Category: category, Name: name, Value: value, Err: err})
	}

	for _, section := range []types.Tokens{decl.Theme.Tokens, decl.Theme.Extend} {
		for _, d := range duplicateNames(section) {
			malformed(d.Category, d.Name, "", types.ErrDuplicateName)
		}
	}

	for i, g := range t.content {
		if err := validateGlob(g); err != nil {
			malformed(types.FieldContent, indexName(i), g, err)
		}
	}
	for i, p := range t.plugins {
		if strings.TrimSpace(p) == "" {
			malformed(types.FieldPlugins, indexName(i), p, types.ErrEmptyValue)
		}
	}

	for _, e := range t.tokens.Colors {
		if err := validateName(e.Name); err != nil {
			malformed(types.CategoryColors, e.Name, e.Value, err)
			continue
		}
		c, err := parseColor(e.Value)
		if err != nil {
			malformed(types.CategoryColors, e.Name, e.Value, err)
			continue
		}
		t.colors[e.Name] = c
	}

	for _, e := range t.tokens.FontFamily {
		if err := validateName(e.Name); err != nil {
			malformed(types.CategoryFontFamily, e.Name, "", err)
			continue
		}
		if err := validateFontStack(e.Value); err != nil {
			malformed(types.CategoryFontFamily, e.Name, strings.Join(e.Value, ", "), err)
		}
	}

	loadSizes(t.tokens.Spacing, types.CategorySpacing, t.spacing, malformed)
	loadSizes(t.tokens.BorderRadius, types.CategoryBorderRadius, t.radii, malformed)

	for _, e := range t.tokens.BoxShadow {
		if err := validateName(e.Name); err != nil {
			malformed(types.CategoryBoxShadow, e.Name, e.Value, err)
			continue
		}
		s, err := parseShadow(e.Value)
		if err != nil {
			malformed(types.CategoryBoxShadow, e.Name, e.Value, err)
			continue
		}
		t.shadows[e.Name] = s
	}

	for _, e := range t.tokens.Keyframes {
		if err := validateKeyframesName(e.Name); err != nil {
			malformed(types.CategoryKeyframes, e.Name, "", err)
			continue
		}
		if len(e.Value) == 0 {
			malformed(types.CategoryKeyframes, e.Name, "", types.ErrEmptyValue)
			continue
		}
		for _, frame := range e.Value {
			if err := validateSelector(frame.Name); err != nil {
				malformed(types.CategoryKeyframes, e.Name, frame.Name, err)
				continue
			}
			if err := validateFrame(frame.Value); err != nil {
				malformed(types.CategoryKeyframes, e.Name, frame.Name, err)
			}
		}
	}

	for _, e := range t.tokens.Animation {
		if err := validateName(e.Name); err != nil {
			malformed(types.CategoryAnimation, e.Name, e.Value, err)
			continue
		}
		a, err := parseAnimation(e.Value)
		if err != nil {
			malformed(types.CategoryAnimation, e.Name, e.Value, err)
			continue
		}
		resolved := true
		for _, name := range a.KeyframeNames() {
			if _, ok := t.tokens.Keyframes.Lookup(name); !ok {
				malformed(types.CategoryAnimation, e.Name, e.Value, types.ErrUndefinedKeyframes)
				resolved = false
				break
			}
		}
		if resolved {
			t.animations[e.Name] = a
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

func loadSizes(entries types.Ordered[string], category string, dst map[string]types.Length, malformed func(string, string, string, error)) {
	for _, e := range entries {
		if err := validateName(e.Name); err != nil {
			malformed(category, e.Name, e.Value, err)
			continue
		}
		l, err := parseSize(e.Value)
		if err != nil {
			malformed(category, e.Name, e.Value, err)
			continue
		}
		dst[e.Name] = l
	}
}

// duplicateNames returns every name declared more than once within a single
// category of tokens.
func duplicateNames(tokens types.Tokens) []types.Token {
	var out []types.Token
	check := func(category string, names []string) {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			if seen[n] {
				out = append(out, types.Token{Category: category, Name: n})
			}
			seen[n] = true
		}
	}
	check(types.CategoryColors, tokens.Colors.Names())
	check(types.CategoryFontFamily, tokens.FontFamily.Names())
	check(types.CategorySpacing, tokens.Spacing.Names())
	check(types.CategoryBorderRadius, tokens.BorderRadius.Names())
	check(types.CategoryBoxShadow, tokens.BoxShadow.Names())
	check(types.CategoryKeyframes, tokens.Keyframes.Names())
	check(types.CategoryAnimation, tokens.Animation.Names())
	return out
}

func indexName(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// Get retrieves the value declared for name in category. Colors, spacing,
// borderRadius, boxShadow and animation values are strings; fontFamily
// values are []string; keyframes values are types.Keyframes. Slices are
// copies.
func (t *Table) Get(category, name string) (any, error) {
	switch category {
	case types.CategoryColors:
		return lookup(t.tokens.Colors, category, name)
	case types.CategorySpacing:
		return lookup(t.tokens.Spacing, category, name)
	case types.CategoryBorderRadius:
		return lookup(t.tokens.BorderRadius, category, name)
	case types.CategoryBoxShadow:
		return lookup(t.tokens.BoxShadow, category, name)
	case types.CategoryAnimation:
		return lookup(t.tokens.Animation, category, name)
	case types.CategoryFontFamily:
		return t.FontFamily(name)
	case types.CategoryKeyframes:
		return t.Keyframes(name)
	default:
		return nil, &types.UnknownTokenError{Category: category, Name: name, NoCategory: true}
	}
}

func lookup[V any](o types.Ordered[V], category, name string) (V, error) {
	v, ok := o.Lookup(name)
	if !ok {
		return v, &types.UnknownTokenError{Category: category, Name: name}
	}
	return v, nil
}

// Names returns the token names of category in declaration order.
func (t *Table) Names(category string) ([]string, error) {
	switch category {
	case types.CategoryColors:
		return t.tokens.Colors.Names(), nil
	case types.CategoryFontFamily:
		return t.tokens.FontFamily.Names(), nil
	case types.CategorySpacing:
		return t.tokens.Spacing.Names(), nil
	case types.CategoryBorderRadius:
		return t.tokens.BorderRadius.Names(), nil
	case types.CategoryBoxShadow:
		return t.tokens.BoxShadow.Names(), nil
	case types.CategoryAnimation:
		return t.tokens.Animation.Names(), nil
	case types.CategoryKeyframes:
		return t.tokens.Keyframes.Names(), nil
	default:
		return nil, &types.UnknownTokenError{Category: category, NoCategory: true}
	}
}

// Categories returns the standard categories that hold at least one token.
func (t *Table) Categories() []string {
	var out []string
	for _, c := range types.StandardCategories {
		names, _ := t.Names(c)
		if len(names) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Entries returns every token of category in declaration order.
func (t *Table) Entries(category string) ([]types.Token, error) {
	names, err := t.Names(category)
	if err != nil {
		return nil, err
	}
	out := make([]types.Token, 0, len(names))
	for _, n := range names {
		v, err := t.Get(category, n)
		if err != nil {
			return nil, err
		}
		out = append(out, types.Token{Category: category, Name: n, Value: v})
	}
	return out, nil
}

// Len returns the number of tokens across all categories.
func (t *Table) Len() int {
	return t.tokens.Len()
}

// Content returns the content glob patterns. The result is never nil.
func (t *Table) Content() []string {
	out := make([]string, len(t.content))
	copy(out, t.content)
	return out
}

// Plugins returns the plugin names. The result is never nil.
func (t *Table) Plugins() []string {
	out := make([]string, len(t.plugins))
	copy(out, t.plugins)
	return out
}

// Declaration serializes the table back to its declarative form, with every
// token under theme.extend.
func (t *Table) Declaration() types.Declaration {
	return types.Declaration{
		Content: t.Content(),
		Theme:   types.ThemeSection{Extend: t.tokens.Clone()},
		Plugins: t.Plugins(),
	}
}

// Color returns the parsed color token name.
func (t *Table) Color(name string) (types.Color, error) {
	return typed(t.colors, types.CategoryColors, name)
}

// Spacing returns the parsed spacing token name.
func (t *Table) Spacing(name string) (types.Length, error) {
	return typed(t.spacing, types.CategorySpacing, name)
}

// BorderRadius returns the parsed border radius token name.
func (t *Table) BorderRadius(name string) (types.Length, error) {
	return typed(t.radii, types.CategoryBorderRadius, name)
}

// BoxShadow returns the parsed shadow token name.
func (t *Table) BoxShadow(name string) (types.Shadow, error) {
	s, err := typed(t.shadows, types.CategoryBoxShadow, name)
	if err != nil {
		return s, err
	}
	return types.Shadow{Layers: append([]types.ShadowLayer(nil), s.Layers...)}, nil
}

// Animation returns the parsed animation token name.
func (t *Table) Animation(name string) (types.Animation, error) {
	a, err := typed(t.animations, types.CategoryAnimation, name)
	if err != nil {
		return a, err
	}
	return types.Animation{Layers: append([]types.AnimationLayer(nil), a.Layers...)}, nil
}

// FontFamily returns a copy of the font stack name.
func (t *Table) FontFamily(name string) ([]string, error) {
	v, err := lookup(t.tokens.FontFamily, types.CategoryFontFamily, name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v...), nil
}

// Keyframes returns a copy of the keyframes name.
func (t *Table) Keyframes(name string) (types.Keyframes, error) {
	v, err := lookup(t.tokens.Keyframes, types.CategoryKeyframes, name)
	if err != nil {
		return nil, err
	}
	return types.CloneKeyframes(v), nil
}

func typed[V any](m map[string]V, category, name string) (V, error) {
	v, ok := m[name]
	if !ok {
		return v, &types.UnknownTokenError{Category: category, Name: name}
	}
	return v, nil
}
