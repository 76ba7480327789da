package utils

// CEPLength is the number of digits in a CEP
const CEPLength = 8

// NormalizeCEP strips formatting and pads/truncates to 8 digits
func NormalizeCEP(cep string) string {
	return FixedLengthDigits(cep, CEPLength)
}

// IsCompleteCEP reports whether the input, once stripped of non-digits,
// has exactly 8 digits. No padding is applied: partial input is not complete.
func IsCompleteCEP(cep string) bool {
	return len(OnlyDigits(cep)) == CEPLength
}

// FormatCEP renders an 8-digit CEP as 00000-000
func FormatCEP(cep string) string {
	d := OnlyDigits(cep)
	if len(d) != CEPLength {
		return cep
	}
	return d[:5] + "-" + d[5:]
}
