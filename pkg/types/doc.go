// Package types defines the token table and snapshot store interfaces, the
// declarative theme form, parsed token values, and the standard error types
// for the tokens system.
package types
