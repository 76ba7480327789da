package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Initials returns up to two uppercase initials (first and last word) for
// the placeholder avatar shown when no profile image could be loaded.
func Initials(fullName string) string {
	words := strings.FieldsFunc(fullName, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '-'
	})
	if len(words) == 0 {
		return "?"
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	if len(words) == 1 {
		return strings.ToUpper(string(first))
	}
	last, _ := utf8.DecodeRuneInString(words[len(words)-1])
	return strings.ToUpper(string(first) + string(last))
}
