// Package utils provides common text utility functions.
package utils

import (
	"strings"
	"unicode"
)

// NormalizeWhitespace replaces runs of whitespace with a single space and trims the ends.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Truncate shortens str to at most maxRunes runes, appending "..." when cut.
func Truncate(str string, maxRunes int) string {
	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}

	return string(runes[:maxRunes]) + "..."
}

// StripPunctuation replaces every rune that is not a letter, digit or
// whitespace with a space.
func StripPunctuation(str string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}

		return ' '
	}, str)
}

// Words lower-cases str, strips punctuation and splits on whitespace.
func Words(str string) []string {
	return strings.Fields(StripPunctuation(strings.ToLower(str)))
}

// IsAlphabetic reports whether every rune in word is a letter.
func IsAlphabetic(word string) bool {
	if word == "" {
		return false
	}

	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	return true
}

// RuneLen returns the number of runes in str.
func RuneLen(str string) int {
	return len([]rune(str))
}
