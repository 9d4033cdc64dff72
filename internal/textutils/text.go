// Package textutils provides the text normalization and matching helpers
// shared by extraction and categorization.
package textutils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CollapseWhitespace trims s and replaces every run of whitespace, including
// non-breaking spaces, with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\u00a0' || r == '\u202f'
}

// NormalizeDescription applies NFKC normalization, so full-width and
// compatibility characters compare equal to their plain forms, and then
// collapses whitespace.
func NormalizeDescription(s string) string {
	return CollapseWhitespace(norm.NFKC.String(s))
}

// Fold lowercases and normalizes s for keyword matching.
func Fold(s string) string {
	return strings.ToLower(NormalizeDescription(s))
}

// ContainsWord reports whether word occurs in text bounded on both sides by
// a non-letter, non-digit rune or the string edge. Both arguments are
// expected to be folded already. Unlike regexp's \b it works for Cyrillic.
func ContainsWord(text, word string) bool {
	return containsBounded(text, word, true)
}

// ContainsWordPrefix is ContainsWord with only the left boundary checked, so
// a stem such as "рассрочк" matches "рассрочка" and "рассрочки".
func ContainsWordPrefix(text, prefix string) bool {
	return containsBounded(text, prefix, false)
}

// ContainsAnyWord returns the first word from words found in text, or "".
func ContainsAnyWord(text string, words []string) string {
	for _, w := range words {
		if ContainsWord(text, w) {
			return w
		}
	}
	return ""
}

func containsBounded(text, word string, rightBoundary bool) bool {
	if word == "" {
		return false
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if leftBounded(text, start) && (!rightBoundary || rightBounded(text, end)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func leftBounded(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func rightBounded(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Truncate shortens s to at most n runes, appending "..." when it cuts.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
