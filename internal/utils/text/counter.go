// Package text provides small text utilities shared by readers and summarizers.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters count once, so limits expressed in characters hold for
// accented and non-Latin headlines alike.
//
//	CountRunes("hello")  // 5
//	CountRunes("café")   // 4
//	CountRunes("")       // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// CollapseWhitespace trims text and folds every whitespace run into one space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
