package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// OnlyDigits removes every non-digit character
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FixedLengthDigits strips non-digits and forces the result to exactly n
// digits: shorter inputs are left-padded with zeros, longer ones keep their
// first n digits. Input without any digit yields "".
func FixedLengthDigits(s string, n int) string {
	d := OnlyDigits(s)
	if d == "" {
		return ""
	}
	if len(d) > n {
		return d[:n]
	}
	if len(d) < n {
		return strings.Repeat("0", n-len(d)) + d
	}
	return d
}
