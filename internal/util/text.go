package util

import (
	"strings"
	"unicode"
)

// FoldWhitespace trims the string and collapses internal whitespace runs
// into single spaces.
func FoldWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Slugify converts a display name into a stable lowercase identifier.
// Runs of non-alphanumeric characters become single hyphens.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	lastHyphen := true
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// TitleCase uppercases the first letter of each space-separated word and
// lowercases the rest.
func TitleCase(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
