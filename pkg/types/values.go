package types

import (
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a parsed #RRGGBB color token.
type Color struct {
	Hex     string // Declared value, e.g. "#22c55e".
	R, G, B uint8
}

// Colorful converts c for color math (blending, luminance, contrast).
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDark reports whether c is dark enough that light text reads better on
// top of it.
func (c Color) IsDark() bool {
	l, _, _ := c.Colorful().Lab()
	return l < 0.55
}

// Length is a parsed CSS length such as "4.5rem" or "0".
type Length struct {
	Value float64
	Unit  string // Empty only for a unitless zero.
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit
}

// IsZero reports whether the length is zero, regardless of unit.
func (l Length) IsZero() bool {
	return l.Value == 0
}

// ShadowLayer is one comma-separated layer of a box-shadow value.
type ShadowLayer struct {
	Inset   bool
	OffsetX Length
	OffsetY Length
	Blur    Length
	Spread  Length
	Color   string // Empty when the layer inherits currentColor.
}

// Shadow is a parsed box-shadow token. A "none" shadow has no layers.
type Shadow struct {
	Layers []ShadowLayer
}

// AnimationLayer is one comma-separated layer of an animation shorthand.
type AnimationLayer struct {
	Name           string // Keyframes name.
	Duration       string
	TimingFunction string
	Delay          string
	IterationCount string
	Direction      string
	FillMode       string
	PlayState      string
}

// Animation is a parsed animation token. A "none" animation has no layers.
type Animation struct {
	Layers []AnimationLayer
}

// KeyframeNames returns the keyframes referenced by every layer, in order.
func (a Animation) KeyframeNames() []string {
	names := make([]string, 0, len(a.Layers))
	for _, l := range a.Layers {
		names = append(names, l.Name)
	}
	return names
}
