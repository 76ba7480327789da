package utils

import (
	"strings"
	"unicode/utf8"
)

// MaskName hides everything but the first word and the initials of the
// remaining words, e.g. "João Silva Santos" -> "João S**** S*****".
// Used when patient names end up in logs.
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return maskWord(parts[0])
	}

	masked := make([]string, len(parts))
	masked[0] = parts[0]
	for i := 1; i < len(parts); i++ {
		masked[i] = maskWord(parts[i])
	}
	return strings.Join(masked, " ")
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return maskWord(email)
	}
	return maskWord(email[:at]) + email[at:]
}

func maskWord(w string) string {
	n := utf8.RuneCountInString(w)
	if n <= 1 {
		return w
	}
	first, _ := utf8.DecodeRuneInString(w)
	return string(first) + strings.Repeat("*", n-1)
}
