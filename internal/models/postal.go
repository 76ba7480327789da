package models

import (
	"encoding/json"
	"strings"
)

// PostalLookupStatus is the outcome of a postal code lookup
type PostalLookupStatus string

const (
	PostalLookupFound    PostalLookupStatus = "found"
	PostalLookupNotFound PostalLookupStatus = "not_found"
	// PostalLookupSkipped means the code did not have 8 digits and no call was made
	PostalLookupSkipped PostalLookupStatus = "skipped"
	// PostalLookupFailed means the call failed; the failure was logged and swallowed
	PostalLookupFailed PostalLookupStatus = "failed"
	// PostalLookupStale means the field changed while the lookup was in flight
	PostalLookupStale PostalLookupStatus = "stale"
)

// PostalLookupResult is what the postal lookup adapter hands back
type PostalLookupResult struct {
	PostalCode string             `json:"postalCode"`
	Status     PostalLookupStatus `json:"status"`
	Address    *Address           `json:"address,omitempty"`
	Cached     bool               `json:"cached,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// ViaCEPResponse is the body returned by viacep.com.br
type ViaCEPResponse struct {
	CEP         string     `json:"cep"`
	Logradouro  string     `json:"logradouro"`
	Complemento string     `json:"complemento"`
	Bairro      string     `json:"bairro"`
	Localidade  string     `json:"localidade"`
	UF          string     `json:"uf"`
	Erro        ViaCEPFlag `json:"erro"`
}

// ViaCEPFlag decodes the `erro` field, which the service has emitted both
// as a JSON boolean and as the string "true".
type ViaCEPFlag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *ViaCEPFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = ViaCEPFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = ViaCEPFlag(strings.EqualFold(strings.TrimSpace(s), "true"))
		return nil
	}
	*f = false
	return nil
}
