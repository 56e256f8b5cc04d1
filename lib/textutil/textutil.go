package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeHandle lowercases a social-media handle and strips the
// leading "@" and surrounding whitespace.
func NormalizeHandle(handle string) string {
	handle = strings.Trim(handle, " \n\t")
	handle = strings.TrimPrefix(handle, "@")
	handle = strings.ToLower(handle)
	return handle
}

// CollapseWhitespace trims a string and squeezes every internal
// whitespace run down to a single space.
func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// Ellipsize truncates to at most `max` runes, replacing the final rune
// with "…" when truncation happened.
func Ellipsize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// TruncateRunes cuts to at most `max` runes with no marker.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
