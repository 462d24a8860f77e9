package utils

import (
	"regexp"
	"strings"
)

// Upstream commodity names embed contract expiries, e.g. "GOLD Exp: Apr-26".
var (
	expirySuffixRe = regexp.MustCompile(`(?i)\s+exp:.*$`)
	expiryTokenRe  = regexp.MustCompile(`(?i)exp:\s*([a-zA-Z0-9-]+)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// CleanText collapses any run of whitespace (spaces, tabs, newlines)
// into a single space and trims the edges.
func CleanText(raw string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
}

// FirstToken returns the first whitespace-separated token of text, or
// "" if there is none. Upstream cells sometimes carry several
// space-separated values (current and previous); only the first is the
// current one.
func FirstToken(text string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// StripExpirySuffix removes a trailing " exp: ..." segment from a
// commodity name, then trims and lowercases it.
// "GOLD Exp: Apr-26" → "gold".
func StripExpirySuffix(name string) string {
	return strings.ToLower(strings.TrimSpace(expirySuffixRe.ReplaceAllString(name, "")))
}

// ExtractExpiry returns the expiry token embedded in a commodity name,
// or "" when absent. "gold exp: apr-26" → "apr-26".
func ExtractExpiry(text string) string {
	m := expiryTokenRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
