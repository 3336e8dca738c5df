package types

import (
	"errors"
	"fmt"
)

// Token errors. MalformedTokenError and UnknownTokenError wrap these so
// callers can match with errors.Is.
var (
	ErrMalformedToken  = errors.New("malformed token")
	ErrUnknownToken    = errors.New("unknown token")
	ErrUnknownCategory = errors.New("unknown category")
)

// Reasons carried by a MalformedTokenError.
var (
	ErrInvalidColor       = errors.New("not a #RRGGBB hex color")
	ErrInvalidLength      = errors.New("not a CSS length")
	ErrNegativeLength     = errors.New("length must not be negative")
	ErrInvalidShadow      = errors.New("not a CSS box-shadow")
	ErrInvalidAnimation   = errors.New("not an animation shorthand")
	ErrUndefinedKeyframes = errors.New("references undefined keyframes")
	ErrInvalidSelector    = errors.New("invalid keyframe selector")
	ErrEmptyFontStack     = errors.New("font stack must not be empty")
	ErrInvalidGlob        = errors.New("invalid glob pattern")
	ErrInvalidName        = errors.New("invalid token name")
	ErrDuplicateName      = errors.New("duplicate token name")
	ErrEmptyValue         = errors.New("value must not be empty")
)

// MalformedTokenError reports a declared value that violates the shape of
// its category. Err holds the reason sentinel.
type MalformedTokenError struct {
	Category string
	Name     string
	Value    string
	Err      error
}

func (e *MalformedTokenError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("malformed token %s.%s: %v", e.Category, e.Name, e.Err)
	}
	return fmt.Sprintf("malformed token %s.%s = %q: %v", e.Category, e.Name, e.Value, e.Err)
}

// Unwrap exposes both ErrMalformedToken and the reason.
func (e *MalformedTokenError) Unwrap() []error {
	return []error{ErrMalformedToken, e.Err}
}

// UnknownTokenError reports a lookup of a name absent from its category, or
// of a category that does not exist.
type UnknownTokenError struct {
	Category string
	Name     string

	// NoCategory is set when the category itself is unknown.
	NoCategory bool
}

func (e *UnknownTokenError) Error() string {
	if e.NoCategory {
		return fmt.Sprintf("unknown category %q", e.Category)
	}
	return fmt.Sprintf("unknown token %q in category %q", e.Name, e.Category)
}

func (e *UnknownTokenError) Unwrap() error {
	return ErrUnknownToken
}

// Is matches ErrUnknownCategory when the category was missing.
func (e *UnknownTokenError) Is(target error) bool {
	return e.NoCategory && target == ErrUnknownCategory
}
