// Package pii masks emails, phone numbers, and card-like digit runs in
// chat text before it is persisted or sent upstream.
package pii

import (
	"fmt"
	"regexp"
)

// Permissive patterns, good enough for chat inputs.
var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// US-like phones: (123) 456-7890, 123-456-7890, +1 123 456 7890.
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[\s\-.()]*)?(?:\d{3}|\(\d{3}\))[\s\-.()]*\d{3}[\s\-.()]*\d{4}`)
	// Card-ish: 13-19 digits possibly spaced or dashed.
	cardRe = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)
)

// Scrub masks every email, phone, and card-like sequence in text. Short
// matches collapse to the bare label; longer ones keep the first and
// last two characters for debuggability.
func Scrub(text string) string {
	if text == "" {
		return text
	}
	out := emailRe.ReplaceAllStringFunc(text, masker("email"))
	out = phoneRe.ReplaceAllStringFunc(out, masker("phone"))
	out = cardRe.ReplaceAllStringFunc(out, masker("card"))
	return out
}

func masker(label string) func(string) string {
	return func(s string) string {
		if len(s) <= 6 {
			return fmt.Sprintf("[%s]", label)
		}
		return fmt.Sprintf("[%s:%s…%s]", label, s[:2], s[len(s)-2:])
	}
}
