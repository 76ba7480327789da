package utils

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/clinica-bage/app-rx/internal/models"
)

var (
	doubledCommas = regexp.MustCompile(`,(\s*,)+`)
	slashSpacing  = regexp.MustCompile(`\s*/\s*`)
)

// addressObjectKeys lists, per canonical address field, the keys the
// backend has used for it inside an address object. Order is priority.
var addressObjectKeys = map[string][]string{
	"postalCode":   {"cep", "postalCode", "postal_code", "zipCode", "zip"},
	"street":       {"street", "logradouro", "rua"},
	"number":       {"number", "numero"},
	"complement":   {"complement", "complemento"},
	"neighborhood": {"neighborhood", "bairro", "district"},
	"city":         {"city", "cidade", "localidade", "municipio"},
	"stateCode":    {"stateCode", "state", "uf", "estado"},
}

// ComposeAddress renders an address as a single display line:
//
//	street, number - complement, neighborhood, city/stateCode
//
// Empty fields are dropped without leaving stray separators.
func ComposeAddress(a models.Address) string {
	street := cleanAddressPart(a.Street)
	number := cleanAddressPart(a.Number)
	complement := strings.TrimLeft(cleanAddressPart(a.Complement), "- ")
	neighborhood := cleanAddressPart(a.Neighborhood)
	city := strings.Trim(cleanAddressPart(a.City), "/ ")
	state := strings.Trim(cleanAddressPart(a.StateCode), "/ ")

	segments := make([]string, 0, 5)
	if street != "" {
		segments = append(segments, street)
	}
	if number != "" {
		segments = append(segments, number)
	}
	if complement != "" {
		// with nothing to attach to, the "- " prefix would be a leading separator
		if len(segments) > 0 {
			segments[len(segments)-1] += " - " + complement
		} else {
			segments = append(segments, complement)
		}
	}
	if neighborhood != "" {
		segments = append(segments, neighborhood)
	}
	switch {
	case city != "" && state != "":
		segments = append(segments, city+"/"+state)
	case city != "":
		segments = append(segments, city)
	case state != "":
		segments = append(segments, state)
	}

	return collapseSeparators(strings.Join(segments, ", "))
}

// NormalizeAddressLine canonicalizes the spacing of a display line: one
// space after each comma, single spaces inside segments and none around
// the city/UF slash. Empty segments are kept.
func NormalizeAddressLine(display string) string {
	raw := strings.Split(display, ",")
	segments := make([]string, len(raw))
	for i, s := range raw {
		segments[i] = slashSpacing.ReplaceAllString(strings.Join(strings.Fields(s), " "), "/")
	}
	return strings.Join(segments, ", ")
}

// DecomposeAddress splits a display line back into fields by position:
// [0] street, [1] number (a " - " suffix becomes the complement),
// [2] neighborhood when there are at least 3 segments and [3] "city/UF"
// when there are at least 4.
//
// This is a best-effort heuristic. It is lossy and depends on segment
// order, so a structured address must be preferred whenever one exists.
func DecomposeAddress(display string) models.Address {
	var a models.Address
	if strings.TrimSpace(display) == "" {
		return a
	}

	raw := strings.Split(display, ",")
	segments := make([]string, len(raw))
	for i, s := range raw {
		segments[i] = strings.TrimSpace(s)
	}

	a.Street = segments[0]
	if len(segments) >= 2 {
		number := segments[1]
		if i := strings.Index(number, " - "); i >= 0 {
			a.Complement = strings.TrimSpace(number[i+3:])
			number = strings.TrimSpace(number[:i])
		}
		a.Number = number
	}
	if len(segments) >= 3 {
		a.Neighborhood = segments[2]
	}
	if len(segments) >= 4 {
		cityState := segments[3]
		if i := strings.Index(cityState, "/"); i >= 0 {
			a.City = strings.TrimSpace(cityState[:i])
			a.StateCode = strings.TrimSpace(cityState[i+1:])
		} else {
			a.City = cityState
		}
	}
	return a
}

// AddressFromAny classifies a loosely-typed address value
func AddressFromAny(v any) models.AddressValue {
	switch val := v.(type) {
	case nil:
		return models.UnknownAddress{}
	case models.AddressValue:
		return val
	case models.Address:
		if val.IsEmpty() {
			return models.UnknownAddress{}
		}
		return models.StructuredAddress{Fields: val}
	case *models.Address:
		if val == nil {
			return models.UnknownAddress{}
		}
		return AddressFromAny(*val)
	case string:
		if strings.TrimSpace(val) == "" {
			return models.UnknownAddress{}
		}
		return models.FreeformAddress{Text: strings.TrimSpace(val)}
	case map[string]any:
		a := addressFromObject(val)
		if a.IsEmpty() {
			return models.UnknownAddress{}
		}
		return models.StructuredAddress{Fields: a}
	default:
		return models.UnknownAddress{}
	}
}

// AddressToStructured converts any variant into structured fields.
// Free-form text goes through DecomposeAddress and is therefore lossy.
func AddressToStructured(v models.AddressValue) models.Address {
	switch val := v.(type) {
	case models.StructuredAddress:
		return val.Fields
	case models.FreeformAddress:
		return DecomposeAddress(val.Text)
	default:
		return models.Address{}
	}
}

// AddressToDisplay converts any variant into a display line
func AddressToDisplay(v models.AddressValue) string {
	switch val := v.(type) {
	case models.StructuredAddress:
		return ComposeAddress(val.Fields)
	case models.FreeformAddress:
		return collapseSeparators(val.Text)
	default:
		return ""
	}
}

// AddressField returns the named canonical field of a
func AddressField(a models.Address, name string) string {
	switch name {
	case "postalCode":
		return a.PostalCode
	case "street":
		return a.Street
	case "number":
		return a.Number
	case "complement":
		return a.Complement
	case "neighborhood":
		return a.Neighborhood
	case "city":
		return a.City
	case "stateCode":
		return a.StateCode
	}
	return ""
}

// CanonicalAddressField maps any known address key (Portuguese or English)
// to its canonical field name. The second result is false for unknown keys.
func CanonicalAddressField(key string) (string, bool) {
	for canonical, keys := range addressObjectKeys {
		for _, k := range keys {
			if strings.EqualFold(k, key) {
				return canonical, true
			}
		}
	}
	return "", false
}

// Stringify renders scalar JSON values as strings. Objects, arrays and
// booleans are rejected.
func Stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case json.Number:
		return val.String(), true
	default:
		return "", false
	}
}

func addressFromObject(obj map[string]any) models.Address {
	pick := func(field string) string {
		for _, key := range addressObjectKeys[field] {
			if s, ok := Stringify(obj[key]); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	return models.Address{
		PostalCode:   NormalizeCEP(pick("postalCode")),
		Street:       pick("street"),
		Number:       pick("number"),
		Complement:   pick("complement"),
		Neighborhood: pick("neighborhood"),
		City:         pick("city"),
		StateCode:    strings.ToUpper(pick("stateCode")),
	}
}

func cleanAddressPart(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

func collapseSeparators(s string) string {
	s = doubledCommas.ReplaceAllString(s, ",")
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}
