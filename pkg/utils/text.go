// Package utils carries small helpers shared across commands and components.
package utils

// Truncate shortens s to at most max runes, marking the cut with "...".
// Non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
