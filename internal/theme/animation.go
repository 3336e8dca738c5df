package theme

import (
	"regexp"
	"strings"

	"github.com/mesh-intelligence/tokens/pkg/types"
)

var (
	timeRE     = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:s|ms)$`)
	numberRE   = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)
	timingFnRE = regexp.MustCompile(`^(?i)(cubic-bezier|steps|linear)\([^()]+\)$`)
)

var timingKeywords = map[string]bool{
	"ease": true, "ease-in": true, "ease-out": true, "ease-in-out": true,
	"linear": true, "step-start": true, "step-end": true,
}

var directionKeywords = map[string]bool{
	"normal": true, "reverse": true, "alternate": true, "alternate-reverse": true,
}

var fillModeKeywords = map[string]bool{
	"forwards": true, "backwards": true, "both": true,
}

var playStateKeywords = map[string]bool{
	"running": true, "paused": true,
}

// animationKeywords cannot name keyframes because the shorthand would read
// them as another property.
var animationKeywords = map[string]bool{
	"none": true, "infinite": true, "initial": true, "inherit": true, "unset": true,
}

func init() {
	for _, set := range []map[string]bool{timingKeywords, directionKeywords, fillModeKeywords, playStateKeywords} {
		for k := range set {
			animationKeywords[k] = true
		}
	}
}

func isNumber(s string) bool {
	return numberRE.MatchString(s)
}

// parseAnimation parses an animation shorthand. "none" yields an animation
// with no layers.
func parseAnimation(s string) (types.Animation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Animation{}, types.ErrInvalidAnimation
	}
	if strings.EqualFold(s, "none") {
		return types.Animation{}, nil
	}

	raws, ok := splitTopLevel(s, func(r rune) bool { return r == ',' })
	if !ok {
		return types.Animation{}, types.ErrInvalidAnimation
	}

	var anim types.Animation
	for _, raw := range raws {
		layer, err := parseAnimationLayer(raw)
		if err != nil {
			return types.Animation{}, err
		}
		anim.Layers = append(anim.Layers, layer)
	}
	return anim, nil
}

// parseAnimationLayer assigns each token of one shorthand layer to the
// first property that accepts it and has not been set yet. The first time
// value is the duration and the second the delay. Exactly one token must
// remain to name the keyframes.
func parseAnimationLayer(raw string) (types.AnimationLayer, error) {
	toks, ok := fieldsTopLevel(raw)
	if !ok || len(toks) == 0 {
		return types.AnimationLayer{}, types.ErrInvalidAnimation
	}

	var layer types.AnimationLayer
	for _, tok := range toks {
		lower := strings.ToLower(tok)
		switch {
		case timeRE.MatchString(lower):
			switch {
			case layer.Duration == "":
				if strings.HasPrefix(lower, "-") {
					return types.AnimationLayer{}, types.ErrInvalidAnimation
				}
				layer.Duration = tok
			case layer.Delay == "":
				layer.Delay = tok
			default:
				return types.AnimationLayer{}, types.ErrInvalidAnimation
			}
		case layer.TimingFunction == "" && (timingKeywords[lower] || timingFnRE.MatchString(tok)):
			layer.TimingFunction = tok
		case layer.IterationCount == "" && (lower == "infinite" || (isNumber(lower) && !strings.HasPrefix(lower, "-"))):
			layer.IterationCount = tok
		case layer.Direction == "" && directionKeywords[lower]:
			layer.Direction = tok
		case layer.FillMode == "" && (fillModeKeywords[lower] || lower == "none"):
			layer.FillMode = tok
		case layer.PlayState == "" && playStateKeywords[lower]:
			layer.PlayState = tok
		case layer.Name == "" && validateKeyframesName(tok) == nil:
			layer.Name = tok
		default:
			return types.AnimationLayer{}, types.ErrInvalidAnimation
		}
	}
	if layer.Name == "" {
		return types.AnimationLayer{}, types.ErrInvalidAnimation
	}
	return layer, nil
}
