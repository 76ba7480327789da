package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	DDI   string `json:"ddi"`
	DDD   string `json:"ddd"`
	Valor string `json:"valor"`
	Full  string `json:"full"`
}

// NormalizePhone keeps the digits of a phone number. Phones have no fixed
// length, so nothing is padded.
func NormalizePhone(phone string) string {
	return OnlyDigits(phone)
}

// ParsePhoneNumber parses a phone number string and returns its components.
// Numbers without a country code are assumed to be Brazilian.
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	num, err := parseBrazilianDefault(phoneString)
	if err != nil {
		return nil, err
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	countryCode := num.GetCountryCode()
	nationalNumber := phonenumbers.GetNationalSignificantNumber(num)

	components := &PhoneComponents{
		DDI:  fmt.Sprintf("%d", countryCode),
		Full: phonenumbers.Format(num, phonenumbers.E164),
	}

	if countryCode == 55 && len(nationalNumber) >= 2 {
		components.DDD = nationalNumber[:2]
		components.Valor = nationalNumber[2:]
	} else {
		components.Valor = nationalNumber
	}

	return components, nil
}

// IsValidPhone reports whether the phone parses as a valid number
func IsValidPhone(phone string) bool {
	_, err := ParsePhoneNumber(phone)
	return err == nil
}

// FormatPhoneForDisplay renders a phone in national format, e.g. (53) 99999-9999.
// Unparseable input is returned as given.
func FormatPhoneForDisplay(phone string) string {
	num, err := parseBrazilianDefault(phone)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return phone
	}
	if num.GetCountryCode() == 55 {
		return phonenumbers.Format(num, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

func parseBrazilianDefault(phoneString string) (*phonenumbers.PhoneNumber, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	if !strings.HasPrefix(cleanPhone, "+") {
		digits := OnlyDigits(cleanPhone)
		// 55 + DDD + 8/9 digit subscriber number
		if strings.HasPrefix(digits, "55") && len(digits) >= 12 {
			cleanPhone = "+" + digits
		} else {
			cleanPhone = "+55" + digits
		}
	}

	num, err := phonenumbers.Parse(cleanPhone, "BR")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}
	return num, nil
}
