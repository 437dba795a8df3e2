package services

import "strings"

const ellipsis = "…"

// Truncate cuts s to at most max runes, appending an ellipsis when it cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + ellipsis
}

// Flatten joins the lines of s with spaces and trims the result.
func Flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// firstLine returns the first line of the trimmed text.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
