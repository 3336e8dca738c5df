package theme

import (
	"regexp"
	"strings"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

var (
	shortHexRE    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	colorFuncRE   = regexp.MustCompile(`^(?i)(rgb|rgba|hsl|hsla|hwb|lab|lch|oklab|oklch|color)\((.+)\)$`)
	colorWordRE   = regexp.MustCompile(`^[a-zA-Z]+$`)
	colorArgSepRE = regexp.MustCompile(`[\s,/]+`)
)

// splitTopLevel splits s at every rune for which isSep returns true,
// ignoring separators nested inside parentheses. Empty fields are kept so
// callers can reject "a,,b".
func splitTopLevel(s string, isSep func(rune) bool) ([]string, bool) {
	var (
		fields []string
		depth  int
		start  int
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, false
			}
		case depth == 0 && isSep(r):
			fields = append(fields, s[start:i])
			start = i + len(string(r))
		}
	}
	if depth != 0 {
		return nil, false
	}
	return append(fields, s[start:]), true
}

// fieldsTopLevel splits s on whitespace outside parentheses and drops empty
// fields.
func fieldsTopLevel(s string) ([]string, bool) {
	parts, ok := splitTopLevel(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if !ok {
		return nil, false
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// isColorValue reports whether tok is a CSS color: a hex literal, a color
// function, or a keyword.
func isColorValue(tok string) bool {
	if shortHexRE.MatchString(tok) {
		return true
	}
	if m := colorFuncRE.FindStringSubmatch(tok); m != nil {
		args := strings.TrimSpace(m[2])
		if args == "" {
			return false
		}
		for _, a := range colorArgSepRE.Split(args, -1) {
			if a == "" {
				continue
			}
			if _, err := parseLength(a); err != nil && !isNumber(a) && !strings.HasSuffix(a, "deg") && a != "none" {
				return false
			}
		}
		return true
	}
	return colorWordRE.MatchString(tok)
}

// parseShadow parses a box-shadow value into layers.
func parseShadow(s string) (types.Shadow, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Shadow{}, types.ErrInvalidShadow
	}
	if strings.EqualFold(s, "none") {
		return types.Shadow{}, nil
	}

	layers, ok := splitTopLevel(s, func(r rune) bool { return r == ',' })
	if !ok {
		return types.Shadow{}, types.ErrInvalidShadow
	}

	var shadow types.Shadow
	for _, raw := range layers {
		layer, err := parseShadowLayer(raw)
		if err != nil {
			return types.Shadow{}, err
		}
		shadow.Layers = append(shadow.Layers, layer)
	}
	return shadow, nil
}

// parseShadowLayer parses "[inset] <x> <y> [<blur> [<spread>]] [<color>]"
// with the color and inset keyword allowed at either end.
func parseShadowLayer(raw string) (types.ShadowLayer, error) {
	toks, ok := fieldsTopLevel(raw)
	if !ok || len(toks) == 0 {
		return types.ShadowLayer{}, types.ErrInvalidShadow
	}

	var (
		layer   types.ShadowLayer
		lengths []types.Length
		sawLen  bool
		doneLen bool
	)
	for _, tok := range toks {
		if strings.EqualFold(tok, "inset") {
			if layer.Inset {
				return types.ShadowLayer{}, types.ErrInvalidShadow
			}
			layer.Inset = true
			if sawLen {
				doneLen = true
			}
			continue
		}
		if l, err := parseLength(tok); err == nil {
			// Lengths must be contiguous.
			if doneLen {
				return types.ShadowLayer{}, types.ErrInvalidShadow
			}
			sawLen = true
			lengths = append(lengths, l)
			continue
		}
		if isColorValue(tok) {
			if layer.Color != "" {
				return types.ShadowLayer{}, types.ErrInvalidShadow
			}
			layer.Color = tok
			if sawLen {
				doneLen = true
			}
			continue
		}
		return types.ShadowLayer{}, types.ErrInvalidShadow
	}

	if len(lengths) < 2 || len(lengths) > 4 {
		return types.ShadowLayer{}, types.ErrInvalidShadow
	}
	layer.OffsetX, layer.OffsetY = lengths[0], lengths[1]
	if len(lengths) > 2 {
		if lengths[2].Value < 0 {
			return types.ShadowLayer{}, types.ErrInvalidShadow
		}
		layer.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		layer.Spread = lengths[3]
	}
	return layer, nil
}
