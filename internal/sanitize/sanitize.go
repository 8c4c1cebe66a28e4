// Package sanitize cleans free-form user input before it is stored or
// compared.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Clean trims s, strips any markup and bounds the result to maxLen runes.
// The result is plain text; encoding it for output is up to the renderer. A
// non-positive maxLen disables the bound.
func Clean(s string, maxLen int) string {
	plain := html.UnescapeString(policy.Sanitize(strings.TrimSpace(s)))
	plain = strings.TrimSpace(plain)

	if maxLen > 0 {
		if r := []rune(plain); len(r) > maxLen {
			plain = strings.TrimSpace(string(r[:maxLen]))
		}
	}

	return plain
}

// Upper is Clean followed by upper-casing, for case-insensitive identifiers.
func Upper(s string, maxLen int) string {
	return strings.ToUpper(Clean(s, maxLen))
}
