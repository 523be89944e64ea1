// Package utils provides small helpers shared across layers, free of any
// domain or transport dependencies.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or
// unparseable. Input is not trimmed; callers pass raw query values.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampLimit parses a result-limit query value and bounds it to (0, max].
// Non-positive or unparseable input falls back to def, so a hostile
// limit=-1 or limit=9999 can never widen a listing beyond max.
func ClampLimit(s string, def, max int) int {
	n := AtoiDefault(s, def)
	if n < 1 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}
