package services

import (
	"strings"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// Record is a decoded JSON object as returned by the clinic backend
type Record = map[string]any

// FieldKind selects how a located value is normalized
type FieldKind string

const (
	// FieldText is trimmed
	FieldText FieldKind = "text"
	// FieldDigits keeps digits only, padded/truncated to Length when set
	FieldDigits FieldKind = "digits"
	// FieldAddressLine is a display line; objects are composed into one
	FieldAddressLine FieldKind = "address-line"
)

// Accessor locates one candidate value for a field. Path is walked from
// the record root; Extract, when set, replaces the default conversion of
// the located value to a string.
type Accessor struct {
	Path    []string
	Extract func(v any) (string, bool)
}

// At builds an accessor for a key path
func At(path ...string) Accessor {
	return Accessor{Path: path}
}

// FieldSpec names a canonical field and the accessors that may hold it,
// in priority order
type FieldSpec struct {
	Name      string
	Kind      FieldKind
	Length    int
	Accessors []Accessor
}

// Canonical maps canonical field names to normalized values. Absent
// fields are "".
type Canonical map[string]string

// Get returns the value of a canonical field
func (c Canonical) Get(name string) string {
	return c[name]
}

// Normalize resolves every field of fields against record. The first
// accessor yielding a non-empty value wins; missing data never fails.
func Normalize(record Record, fields []FieldSpec) Canonical {
	out := make(Canonical, len(fields))
	for _, f := range fields {
		out[f.Name] = resolveField(record, f)
	}
	return out
}

func resolveField(record Record, f FieldSpec) string {
	for _, acc := range f.Accessors {
		v, ok := walk(record, acc.Path)
		if !ok {
			continue
		}

		var s string
		if acc.Extract != nil {
			s, ok = acc.Extract(v)
		} else {
			s, ok = extract(v, f.Kind)
		}
		if !ok {
			continue
		}

		if s = normalizeValue(s, f.Kind, f.Length); s != "" {
			return s
		}
	}
	return ""
}

// walk follows path through nested objects. A string met where an object
// was expected is read as a free-form address line, so a path such as
// address.street still resolves against "Rua A, 10, Centro, Bagé/RS".
func walk(record Record, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var cur any = record
	for i, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok || v == nil {
				return nil, false
			}
			cur = v
		case string:
			if i != len(path)-1 {
				return nil, false
			}
			canonical, ok := utils.CanonicalAddressField(key)
			if !ok {
				return nil, false
			}
			return utils.AddressField(utils.DecomposeAddress(node), canonical), true
		default:
			return nil, false
		}
	}
	return cur, true
}

func extract(v any, kind FieldKind) (string, bool) {
	if obj, ok := v.(map[string]any); ok {
		// an object where a string was expected: only address lines can
		// be rebuilt from one
		if kind != FieldAddressLine {
			return "", false
		}
		return utils.AddressToDisplay(utils.AddressFromAny(obj)), true
	}
	return utils.Stringify(v)
}

func normalizeValue(s string, kind FieldKind, length int) string {
	switch kind {
	case FieldDigits:
		if length > 0 {
			return utils.FixedLengthDigits(s, length)
		}
		return utils.OnlyDigits(s)
	case FieldAddressLine:
		return utils.AddressToDisplay(utils.AddressFromAny(s))
	default:
		return strings.TrimSpace(s)
	}
}

// Keys the backend has used for identity records. Nested containers are
// tried before flat fields.
var (
	identityContainers = []string{"patient", "paciente", "user", "usuario"}
	addressContainers  = []string{"address", "endereco"}
)

// nestedThenFlat yields container.key accessors for every container,
// followed by the flat keys
func nestedThenFlat(containers, keys []string) []Accessor {
	accessors := make([]Accessor, 0, len(containers)*len(keys)+len(keys))
	for _, c := range containers {
		for _, k := range keys {
			accessors = append(accessors, At(c, k))
		}
	}
	for _, k := range keys {
		accessors = append(accessors, At(k))
	}
	return accessors
}

// addressAccessors covers identity.address.key, address.key and the flat key
func addressAccessors(keys []string) []Accessor {
	var accessors []Accessor
	for _, ic := range identityContainers {
		for _, ac := range addressContainers {
			for _, k := range keys {
				accessors = append(accessors, At(ic, ac, k))
			}
		}
	}
	return append(accessors, nestedThenFlat(addressContainers, keys)...)
}

func isAdminFlag(v any) (string, bool) {
	if b, ok := v.(bool); ok && b {
		return string(models.RoleAdmin), true
	}
	return "", false
}

// IdentityFields is the default alias table for identity records
var IdentityFields = []FieldSpec{
	{Name: "id", Kind: FieldText, Accessors: nestedThenFlat(identityContainers, []string{"_id", "id", "userId"})},
	{Name: "fullName", Kind: FieldText, Accessors: nestedThenFlat(identityContainers, []string{"fullName", "full_name", "name", "nome"})},
	{Name: "email", Kind: FieldText, Accessors: nestedThenFlat(identityContainers, []string{"email", "e_mail"})},
	{Name: "taxId", Kind: FieldDigits, Length: utils.CPFLength, Accessors: nestedThenFlat(identityContainers, []string{"cpf", "Cpf", "CPF", "taxId", "tax_id", "documento"})},
	{Name: "phone", Kind: FieldDigits, Accessors: nestedThenFlat(identityContainers, []string{"telefone", "celular", "whatsapp", "phone", "phoneNumber"})},
	{Name: "role", Kind: FieldText, Accessors: append(
		nestedThenFlat(identityContainers, []string{"role", "tipo", "userType"}),
		Accessor{Path: []string{"isAdmin"}, Extract: isAdminFlag},
	)},
	{Name: "profileImageRef", Kind: FieldText, Accessors: nestedThenFlat(identityContainers, []string{"profileImage", "profile_image", "avatar", "foto", "photo", "imageUrl"})},
	{Name: "postalCode", Kind: FieldDigits, Length: utils.CEPLength, Accessors: addressAccessors([]string{"cep", "postalCode", "postal_code", "zipCode"})},
	{Name: "street", Kind: FieldText, Accessors: addressAccessors([]string{"logradouro", "street", "rua"})},
	{Name: "number", Kind: FieldText, Accessors: addressAccessors([]string{"numero", "number"})},
	{Name: "complement", Kind: FieldText, Accessors: addressAccessors([]string{"complemento", "complement"})},
	{Name: "neighborhood", Kind: FieldText, Accessors: addressAccessors([]string{"bairro", "neighborhood"})},
	{Name: "city", Kind: FieldText, Accessors: addressAccessors([]string{"cidade", "localidade", "city"})},
	{Name: "stateCode", Kind: FieldText, Accessors: addressAccessors([]string{"uf", "estado", "state", "stateCode"})},
	{Name: "addressLine", Kind: FieldAddressLine, Accessors: nestedThenFlat(identityContainers, []string{"addressLine", "address", "endereco"})},
}

// NormalizeIdentity maps a backend record onto the canonical identity
func NormalizeIdentity(record Record) models.Identity {
	c := Normalize(record, IdentityFields)

	address := models.Address{
		PostalCode:   c.Get("postalCode"),
		Street:       c.Get("street"),
		Number:       c.Get("number"),
		Complement:   c.Get("complement"),
		Neighborhood: c.Get("neighborhood"),
		City:         c.Get("city"),
		StateCode:    strings.ToUpper(c.Get("stateCode")),
	}

	line := c.Get("addressLine")
	if line == "" && !address.IsEmpty() {
		line = utils.ComposeAddress(address)
	}

	return models.Identity{
		ID:              c.Get("id"),
		FullName:        c.Get("fullName"),
		Email:           c.Get("email"),
		TaxID:           c.Get("taxId"),
		Phone:           c.Get("phone"),
		Role:            models.ParseRole(c.Get("role")),
		Address:         address,
		AddressLine:     line,
		ProfileImageRef: models.ImageReference(c.Get("profileImageRef")),
	}
}

// NormalizeIdentities normalizes a list of backend records
func NormalizeIdentities(records []Record) []models.Identity {
	out := make([]models.Identity, 0, len(records))
	for _, r := range records {
		out = append(out, NormalizeIdentity(r))
	}
	return out
}
