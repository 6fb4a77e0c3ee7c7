// Package mailtext normalizes raw email fields into the canonical strings the
// rule engines compare against.
package mailtext

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultPreviewChars is the preview length shown to the reviewer.
const DefaultPreviewChars = 300

const truncatedMarker = " ...[truncated]"

var whitespaceRegex = regexp.MustCompile(`[\s\p{Z}]+`)

// Clean unescapes HTML entities, normalizes to NFC and collapses whitespace.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = norm.NFC.String(s)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// ExtractDomain returns the lowercase domain following the last @ in a sender
// field, up to the next space or '>'. It returns "" when there is no @.
func ExtractDomain(sender string) string {
	at := strings.LastIndexByte(sender, '@')
	if at < 0 {
		return ""
	}
	rest := sender[at+1:]
	if end := strings.IndexAny(rest, " >"); end >= 0 {
		rest = rest[:end]
	}
	return strings.ToLower(strings.TrimSpace(rest))
}

// DomainMatches reports whether domain equals suffix or is a subdomain of it.
func DomainMatches(domain, suffix string) bool {
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	if domain == "" || suffix == "" {
		return false
	}
	return domain == suffix || strings.HasSuffix(domain, "."+suffix)
}

// Preview flattens newlines and cuts the text to at most n runes.
func Preview(text string, n int) string {
	if n <= 0 {
		n = DefaultPreviewChars
	}
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + truncatedMarker
}
