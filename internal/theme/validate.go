package theme

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

var (
	hexColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	lengthRE   = regexp.MustCompile(`^([+-]?(?:\d+(?:\.\d+)?|\.\d+))([a-zA-Z%]*)$`)
	percentRE  = regexp.MustCompile(`^(\d+(?:\.\d+)?)%$`)
	identRE    = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)
)

// lengthUnits lists the CSS length units accepted in spacing, radius and
// shadow values.
var lengthUnits = map[string]bool{
	"px": true, "rem": true, "em": true, "%": true,
	"vh": true, "vw": true, "vmin": true, "vmax": true,
	"svh": true, "lvh": true, "dvh": true,
	"ch": true, "ex": true, "pt": true, "pc": true,
	"cm": true, "mm": true, "in": true, "q": true,
}

// parseColor parses a #RRGGBB color.
func parseColor(s string) (types.Color, error) {
	if !hexColorRE.MatchString(s) {
		return types.Color{}, types.ErrInvalidColor
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return types.Color{}, types.ErrInvalidColor
	}
	return types.Color{
		Hex: s,
		R:   uint8(v >> 16),
		G:   uint8(v >> 8),
		B:   uint8(v),
	}, nil
}

// parseLength parses a CSS length. A unitless value is accepted only when
// it is zero.
func parseLength(s string) (types.Length, error) {
	m := lengthRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return types.Length{}, types.ErrInvalidLength
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return types.Length{}, types.ErrInvalidLength
	}
	if v == 0 {
		v = 0 // -0 prints as "-0"
	}
	unit := strings.ToLower(m[2])
	if unit == "" && v != 0 {
		return types.Length{}, types.ErrInvalidLength
	}
	if unit != "" && !lengthUnits[unit] {
		return types.Length{}, types.ErrInvalidLength
	}
	return types.Length{Value: v, Unit: unit}, nil
}

// parseSize parses a length used as a scale step; negative values are
// rejected.
func parseSize(s string) (types.Length, error) {
	l, err := parseLength(s)
	if err != nil {
		return l, err
	}
	if l.Value < 0 {
		return types.Length{}, types.ErrNegativeLength
	}
	return l, nil
}

// validateName checks a token name: non-empty, no surrounding or embedded
// whitespace.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return types.ErrInvalidName
	}
	return nil
}

// validateKeyframesName checks that name can appear in an animation
// shorthand as a CSS identifier.
func validateKeyframesName(name string) error {
	if !identRE.MatchString(name) {
		return types.ErrInvalidName
	}
	if animationKeywords[strings.ToLower(name)] {
		return types.ErrInvalidName
	}
	return nil
}

// validateFontStack checks a font fallback list.
func validateFontStack(fonts []string) error {
	if len(fonts) == 0 {
		return types.ErrEmptyFontStack
	}
	for _, f := range fonts {
		if strings.TrimSpace(f) == "" {
			return types.ErrEmptyValue
		}
	}
	return nil
}

// validateSelector checks a keyframe offset selector: "from", "to", a
// percentage between 0% and 100%, or a comma-separated combination.
func validateSelector(sel string) error {
	parts := strings.Split(sel, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch strings.ToLower(p) {
		case "from", "to":
			continue
		}
		m := percentRE.FindStringSubmatch(p)
		if m == nil {
			return types.ErrInvalidSelector
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v > 100 {
			return types.ErrInvalidSelector
		}
	}
	return nil
}

// validateFrame checks the property/value pairs of one keyframe.
func validateFrame(props types.Properties) error {
	if len(props) == 0 {
		return types.ErrEmptyValue
	}
	for _, p := range props {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Value) == "" {
			return types.ErrEmptyValue
		}
	}
	return nil
}

// validateGlob checks a content glob pattern.
func validateGlob(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return types.ErrInvalidGlob
	}
	if !doublestar.ValidatePattern(pattern) {
		return types.ErrInvalidGlob
	}
	return nil
}
