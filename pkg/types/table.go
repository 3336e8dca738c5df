package types

// TokenTable provides read-only lookups over a loaded theme.
// Get returns any; callers type-assert to the category's value type
// (string, []string, or Keyframes).
type TokenTable interface {
	// Get retrieves the value declared for name in category.
	// Returns an UnknownTokenError if the category or name does not exist.
	Get(category, name string) (any, error)

	// Names returns the token names of category in declaration order.
	// Returns an UnknownTokenError if the category does not exist.
	Names(category string) ([]string, error)

	// Declaration serializes the table back to its declarative form.
	// Loading the result yields an identical table.
	Declaration() Declaration
}

// Token is a single category/name/value triple, as enumerated by a table.
type Token struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    any    `json:"value"`
}
