package models

// Address is the canonical postal address. Empty fields are absent.
type Address struct {
	PostalCode   string `json:"postalCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	StateCode    string `json:"stateCode"`
}

// IsEmpty reports whether no field of the address is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// AddressKind identifies the variant held by an AddressValue
type AddressKind string

const (
	AddressKindStructured AddressKind = "structured"
	AddressKindFreeform   AddressKind = "freeform"
	AddressKindUnknown    AddressKind = "unknown"
)

// AddressValue is an address as the backend hands it over: a structured
// object, a free-form display string, or something unusable.
// The set of variants is closed.
type AddressValue interface {
	Kind() AddressKind
	isAddressValue()
}

// StructuredAddress wraps an address received as an object
type StructuredAddress struct {
	Fields Address
}

// FreeformAddress wraps an address received as a single display string
type FreeformAddress struct {
	Text string
}

// UnknownAddress stands for a missing or unparseable address
type UnknownAddress struct{}

func (StructuredAddress) Kind() AddressKind { return AddressKindStructured }
func (FreeformAddress) Kind() AddressKind   { return AddressKindFreeform }
func (UnknownAddress) Kind() AddressKind    { return AddressKindUnknown }

func (StructuredAddress) isAddressValue() {}
func (FreeformAddress) isAddressValue()   {}
func (UnknownAddress) isAddressValue()    {}

// AddressComposeRequest is the payload for composing an address string
type AddressComposeRequest struct {
	Address Address `json:"address"`
}

// AddressComposeResponse carries a composed display string
type AddressComposeResponse struct {
	Display string `json:"display"`
}

// AddressDecomposeRequest is the payload for splitting a display string
type AddressDecomposeRequest struct {
	Display string `json:"display" binding:"required"`
}

// AddressDecomposeResponse carries the best-effort structured address
type AddressDecomposeResponse struct {
	Address Address `json:"address"`
	Lossy   bool    `json:"lossy"`
}
