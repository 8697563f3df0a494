// Package textutils provides text normalization helpers for SMS bodies.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// upiRefSpanRe matches "UPI ... Ref <token>" spans, shortest first.
	upiRefSpanRe = regexp.MustCompile(`(?i)\bUPI\b.*?\bRef(?:erence)?\b(?:\s*No\b)?\.?\s*[:.#-]?\s*[A-Za-z0-9]+`)

	// upiRefTokenRe captures the token of the first "UPI Ref <token>" in a text.
	upiRefTokenRe = regexp.MustCompile(`(?i)\bUPI\s*Ref(?:erence)?\b(?:\s*No\b)?\.?\s*[:.#-]?\s*([A-Za-z0-9]+)`)

	emptyBracketsRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	edgeSeparators  = " \t-–:;,./|"
)

// CollapseWhitespace trims s and replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripUPIReference removes UPI reference boilerplate ("UPI Ref 1234",
// "UPI/P2M Ref No: 1234", ...) from s and tidies the separators it leaves behind.
func StripUPIReference(s string) string {
	s = upiRefSpanRe.ReplaceAllString(s, " ")
	s = emptyBracketsRe.ReplaceAllString(s, " ")
	s = CollapseWhitespace(s)
	return strings.Trim(s, edgeSeparators)
}

// FindUPIReference returns the token of the first "UPI Ref <token>" in s.
func FindUPIReference(s string) string {
	m := upiRefTokenRe.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// DigitsOnly strips mask characters from a masked account or card number and
// keeps the digits.
func DigitsOnly(masked string) string {
	masked = strings.ReplaceAll(masked, "*", "")
	var b strings.Builder
	for _, r := range masked {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Snippet shortens s for log output.
func Snippet(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
