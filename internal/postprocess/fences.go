// Package postprocess turns raw provider answers into response artifacts.
package postprocess

import (
	"regexp"
	"strings"
)

const fence = "```"

var (
	languageTag = regexp.MustCompile(`^[\w#+.-]*$`)
	// A markup tag glued to the code, as in ```html<div>...```.
	inlineTag = regexp.MustCompile(`^(?i:html|xml|svg|jsx|tsx|vue)<`)
)

// StripFences trims s and removes an outer ```lang ... ``` pair when both the
// opening and the closing fence are present. Partial fencing is left alone.
// Stripping repeats until nothing changes, so StripFences(StripFences(s)) ==
// StripFences(s).
func StripFences(s string) string {
	for {
		out := stripOnce(s)
		if out == s {
			return out
		}
		s = out
	}
}

func stripOnce(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s
	}

	inner := s[len(fence) : len(s)-len(fence)]
	if first, rest, ok := strings.Cut(inner, "\n"); ok && languageTag.MatchString(strings.TrimSpace(first)) {
		inner = rest
	} else if inlineTag.MatchString(inner) {
		inner = inner[strings.IndexByte(inner, '<'):]
	}
	return strings.TrimSpace(inner)
}
