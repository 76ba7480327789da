package utils

import (
	"strconv"
)

// CPFLength is the number of digits in a CPF
const CPFLength = 11

// NormalizeCPF strips formatting and pads/truncates to 11 digits.
// Records coming from the backend may have lost leading zeros.
func NormalizeCPF(cpf string) string {
	return FixedLengthDigits(cpf, CPFLength)
}

// FormatCPF renders an 11-digit CPF as 000.000.000-00. Anything else is
// returned unchanged.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != CPFLength {
		return cpf
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// ValidateCPF validates a CPF number
// It checks if the CPF has 11 digits and validates the check digits
func ValidateCPF(cpf string) bool {
	cpf = OnlyDigits(cpf)

	if len(cpf) != CPFLength {
		return false
	}

	// Check if all digits are the same
	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return cpf[9] == cpfCheckDigit(cpf[:9]) && cpf[10] == cpfCheckDigit(cpf[:10])
}

// cpfCheckDigit computes the check digit for the given prefix (9 or 10 digits)
func cpfCheckDigit(prefix string) byte {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		digit, _ := strconv.Atoi(string(prefix[i]))
		sum += digit * (weight - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return strconv.Itoa(11 - remainder)[0]
}
