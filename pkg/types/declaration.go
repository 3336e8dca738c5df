package types

// Properties maps CSS property names to values inside one keyframe.
type Properties = Ordered[string]

// Keyframes maps offset selectors ("0%", "50%", "0%, 100%", "from", "to")
// to the properties applied at that offset.
type Keyframes = Ordered[Properties]

// Declaration is the literal, declarative form of a theme configuration as
// read by the external style generator.
type Declaration struct {
	// Content lists the glob patterns of the templates the generator scans.
	Content []string     `json:"content" yaml:"content"`
	Theme   ThemeSection `json:"theme" yaml:"theme"`
	Plugins []string     `json:"plugins" yaml:"plugins"`
}

// ThemeSection holds categories that replace the generator's defaults
// (declared directly under theme) and categories that extend them.
type ThemeSection struct {
	Tokens `yaml:",inline"`

	Extend Tokens `json:"extend" yaml:"extend,omitempty"`
}

// Tokens groups the ordered token mappings of every category.
type Tokens struct {
	Colors       Ordered[string]    `json:"colors,omitempty" yaml:"colors,omitempty"`
	FontFamily   Ordered[[]string]  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	Spacing      Ordered[string]    `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	BorderRadius Ordered[string]    `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	BoxShadow    Ordered[string]    `json:"boxShadow,omitempty" yaml:"boxShadow,omitempty"`
	Animation    Ordered[string]    `json:"animation,omitempty" yaml:"animation,omitempty"`
	Keyframes    Ordered[Keyframes] `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`
}

// Merge returns a copy of t with every entry of ext applied on top:
// existing names keep their position and take the new value, new names are
// appended.
func (t Tokens) Merge(ext Tokens) Tokens {
	out := t.Clone()
	mergeInto(&out.Colors, ext.Colors)
	mergeInto(&out.FontFamily, ext.FontFamily)
	mergeInto(&out.Spacing, ext.Spacing)
	mergeInto(&out.BorderRadius, ext.BorderRadius)
	mergeInto(&out.BoxShadow, ext.BoxShadow)
	mergeInto(&out.Animation, ext.Animation)
	mergeInto(&out.Keyframes, ext.Keyframes)
	return out
}

func mergeInto[V any](dst *Ordered[V], src Ordered[V]) {
	for _, e := range src {
		dst.Set(e.Name, e.Value)
	}
}

// Clone returns a deep copy of t. Mutating the copy never affects t.
func (t Tokens) Clone() Tokens {
	return Tokens{
		Colors:       cloneStrings(t.Colors),
		FontFamily:   cloneFontFamilies(t.FontFamily),
		Spacing:      cloneStrings(t.Spacing),
		BorderRadius: cloneStrings(t.BorderRadius),
		BoxShadow:    cloneStrings(t.BoxShadow),
		Animation:    cloneStrings(t.Animation),
		Keyframes:    cloneKeyframeSets(t.Keyframes),
	}
}

// Len returns the total number of tokens across all categories.
func (t Tokens) Len() int {
	return len(t.Colors) + len(t.FontFamily) + len(t.Spacing) +
		len(t.BorderRadius) + len(t.BoxShadow) + len(t.Animation) + len(t.Keyframes)
}

func cloneStrings(o Ordered[string]) Ordered[string] {
	if o == nil {
		return nil
	}
	out := make(Ordered[string], len(o))
	copy(out, o)
	return out
}

func cloneFontFamilies(o Ordered[[]string]) Ordered[[]string] {
	if o == nil {
		return nil
	}
	out := make(Ordered[[]string], len(o))
	for i, e := range o {
		out[i] = Entry[[]string]{Name: e.Name, Value: append([]string(nil), e.Value...)}
	}
	return out
}

// CloneKeyframes returns a deep copy of k.
func CloneKeyframes(k Keyframes) Keyframes {
	if k == nil {
		return nil
	}
	out := make(Keyframes, len(k))
	for i, e := range k {
		out[i] = Entry[Properties]{Name: e.Name, Value: cloneStrings(e.Value)}
	}
	return out
}

func cloneKeyframeSets(o Ordered[Keyframes]) Ordered[Keyframes] {
	if o == nil {
		return nil
	}
	out := make(Ordered[Keyframes], len(o))
	for i, e := range o {
		out[i] = Entry[Keyframes]{Name: e.Name, Value: CloneKeyframes(e.Value)}
	}
	return out
}
