package models

// Role of an identity record
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// ParseRole maps the role names used by the backend onto Role.
// Anything unrecognised is treated as a patient.
func ParseRole(s string) Role {
	switch s {
	case "admin", "administrador", "ADMIN", "Admin":
		return RoleAdmin
	default:
		return RolePatient
	}
}

// ImageReference is an opaque pointer to a profile image: an absolute URL
// or a relative path/filename produced by the backend.
type ImageReference string

// Identity is the canonical patient/admin representation
type Identity struct {
	ID              string         `json:"id,omitempty"`
	FullName        string         `json:"fullName"`
	Email           string         `json:"email"`
	TaxID           string         `json:"taxId"`
	Phone           string         `json:"phone"`
	Role            Role           `json:"role"`
	Address         Address        `json:"address"`
	AddressLine     string         `json:"addressLine,omitempty"`
	ProfileImageRef ImageReference `json:"profileImageRef,omitempty"`
}

// IsAdmin reports whether the identity holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IdentityForm holds the contact fields collected alongside a prescription
type IdentityForm struct {
	FullName string  `json:"fullName"`
	TaxID    string  `json:"taxId"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
}

// UpsertAction is the decision taken by the identity upsert orchestrator
type UpsertAction string

const (
	UpsertActionCreate UpsertAction = "create"
	UpsertActionUpdate UpsertAction = "update"
	UpsertActionSkip   UpsertAction = "skip"
)

// IdentityPayload is the body sent to the backend for create/update
type IdentityPayload struct {
	Name    string   `json:"name,omitempty"`
	CPF     string   `json:"cpf,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Email   string   `json:"email,omitempty"`
	Role    Role     `json:"role,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// UpsertDecision is the outcome of deciding what to do with an identity form
type UpsertDecision struct {
	Action UpsertAction `json:"action"`

	// TargetID is the backend id of the record to patch (update only)
	TargetID         string          `json:"targetId,omitempty"`
	Payload          IdentityPayload `json:"payload"`
	PlaceholderTaxID bool            `json:"placeholderTaxId"`
	PlaceholderEmail bool            `json:"placeholderEmail"`
}

// UpsertOutcome reports what happened when a decision was executed
type UpsertOutcome struct {
	Decision UpsertDecision `json:"decision"`
	Identity *Identity      `json:"identity,omitempty"`
	Warning  string         `json:"warning,omitempty"`
}

// PatientSearchQuery selects which backend search parameter is used
type PatientSearchQuery struct {
	CPF   string `form:"cpf" json:"cpf,omitempty"`
	Name  string `form:"name" json:"name,omitempty"`
	Phone string `form:"phone" json:"phone,omitempty"`
}

// IsEmpty reports whether no search parameter is set
func (q PatientSearchQuery) IsEmpty() bool {
	return q.CPF == "" && q.Name == "" && q.Phone == ""
}

// IdentityDisplay holds the contact fields of an identity formatted for
// people to read
type IdentityDisplay struct {
	TaxID      string `json:"taxId,omitempty"`
	TaxIDValid bool   `json:"taxIdValid"`
	Phone      string `json:"phone,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Address    string `json:"address,omitempty"`
	Initials   string `json:"initials,omitempty"`
}

// PatientView is a normalized identity together with its display form
type PatientView struct {
	Identity
	Display IdentityDisplay `json:"display"`
}
