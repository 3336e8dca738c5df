package types

import "github.com/samber/lo"

// Standard category names for TokenTable.Get. They match the keys of the
// theme section of a configuration file.
const (
	CategoryColors       = "colors"
	CategoryFontFamily   = "fontFamily"
	CategorySpacing      = "spacing"
	CategoryBorderRadius = "borderRadius"
	CategoryBoxShadow    = "boxShadow"
	CategoryAnimation    = "animation"
	CategoryKeyframes    = "keyframes"
)

// Pseudo-categories used in MalformedTokenError for the top-level
// declaration fields.
const (
	FieldContent = "content"
	FieldPlugins = "plugins"
)

// StandardCategories lists all categories in validation and output order.
// Keyframes precede animation so that animation references resolve against
// an already validated keyframe set.
var StandardCategories = []string{
	CategoryColors,
	CategoryFontFamily,
	CategorySpacing,
	CategoryBorderRadius,
	CategoryBoxShadow,
	CategoryKeyframes,
	CategoryAnimation,
}

// IsCategory reports whether name is one of the standard categories.
func IsCategory(name string) bool {
	return lo.Contains(StandardCategories, name)
}
