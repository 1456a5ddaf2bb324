// Package sanitizer provides deterministic text cleanup and PII masking
// applied to every document before chunking.
package sanitizer

import (
	"regexp"
	"strings"
)

// Replacement tokens for masked PII.
const (
	EmailToken = "[EMAIL]"
	PhoneToken = "[PHONE]"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe      = regexp.MustCompile(`\+?(\d{1,3})?[-. (]*(\d{3})[-. )]*(\d{3})[-. ]*(\d{4})`)
)

// Clean collapses all whitespace runs to single spaces and trims the ends.
// Idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// MaskPII replaces email-like and phone-like substrings with fixed tokens.
// The patterns are conservative: obfuscated contact info may slip through,
// but masking never fails. Idempotent, since the tokens themselves contain
// no maskable substrings.
func MaskPII(text string) string {
	text = emailRe.ReplaceAllString(text, EmailToken)
	text = phoneRe.ReplaceAllString(text, PhoneToken)
	return text
}
