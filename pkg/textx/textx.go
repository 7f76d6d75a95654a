// Package textx holds small text helpers shared by the feature pipeline.
package textx

import "strings"

// SanitizeText strips control characters from parser output before it enters
// the aggregate text. Tab, newline, and carriage return survive; the result
// is space-trimmed.
func SanitizeText(s string) string {
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 32 || r == 127:
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
