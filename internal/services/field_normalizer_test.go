package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinica-bage/app-rx/internal/models"
)

func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestNormalizeIdentity_MixedAliases(t *testing.T) {
	record := decodeRecord(t, `{"Cpf":"123","address":{"cep":"96400110","street":"Av. X"}}`)

	got := NormalizeIdentity(record)

	assert.Equal(t, "00000000123", got.TaxID)
	assert.Equal(t, "96400110", got.Address.PostalCode)
	assert.Equal(t, "Av. X", got.Address.Street)
	assert.Equal(t, "Av. X", got.AddressLine)
	assert.Equal(t, models.RolePatient, got.Role)
}

func TestNormalizeIdentity_TaxIDLength(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{"short is padded", `{"cpf":"123"}`, "00000000123"},
		{"formatted", `{"cpf":"529.982.247-25"}`, "52998224725"},
		{"long is truncated", `{"cpf":"1234567890123"}`, "12345678901"},
		{"number lost its leading zero", `{"cpf":3561350712}`, "03561350712"},
		{"no digits falls through to next alias", `{"cpf":"n/a","taxId":"52998224725"}`, "52998224725"},
		{"absent", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIdentity(decodeRecord(t, tt.record))
			assert.Equal(t, tt.want, got.TaxID)
			if got.TaxID != "" {
				assert.Len(t, got.TaxID, 11)
			}
		})
	}
}

func TestNormalizeIdentity_NestedBeforeFlat(t *testing.T) {
	record := decodeRecord(t, `{
		"cpf": "11111111111",
		"name": "Flat Name",
		"patient": {"cpf": "52998224725", "nome": "Maria da Silva"}
	}`)

	got := NormalizeIdentity(record)

	assert.Equal(t, "52998224725", got.TaxID)
	assert.Equal(t, "Maria da Silva", got.FullName)
}

func TestNormalizeIdentity_WhitespaceIsEmpty(t *testing.T) {
	record := decodeRecord(t, `{"user":{"name":"   "},"nome":"João"}`)
	assert.Equal(t, "João", NormalizeIdentity(record).FullName)
}

func TestNormalizeIdentity_PortugueseRecord(t *testing.T) {
	record := decodeRecord(t, `{
		"_id": "abc123",
		"nome": "Maria da Silva",
		"email": "maria@example.com",
		"telefone": "(53) 99999-9999",
		"tipo": "admin",
		"foto": "maria.jpg",
		"endereco": {
			"cep": "96400-110",
			"logradouro": "Rua A",
			"numero": 100,
			"complemento": "Apto 2",
			"bairro": "Centro",
			"cidade": "Bagé",
			"uf": "rs"
		}
	}`)

	got := NormalizeIdentity(record)

	assert.Equal(t, models.Identity{
		ID:       "abc123",
		FullName: "Maria da Silva",
		Email:    "maria@example.com",
		Phone:    "53999999999",
		Role:     models.RoleAdmin,
		Address: models.Address{
			PostalCode: "96400110", Street: "Rua A", Number: "100", Complement: "Apto 2",
			Neighborhood: "Centro", City: "Bagé", StateCode: "RS",
		},
		AddressLine:     "Rua A, 100 - Apto 2, Centro, Bagé/RS",
		ProfileImageRef: "maria.jpg",
	}, got)
}

func TestNormalizeIdentity_StringAddressDecomposed(t *testing.T) {
	record := decodeRecord(t, `{"address":"Rua A, 10, Centro, Bagé/RS"}`)

	got := NormalizeIdentity(record)

	assert.Equal(t, "Rua A", got.Address.Street)
	assert.Equal(t, "10", got.Address.Number)
	assert.Equal(t, "Centro", got.Address.Neighborhood)
	assert.Equal(t, "Bagé", got.Address.City)
	assert.Equal(t, "RS", got.Address.StateCode)
	assert.Equal(t, "Rua A, 10, Centro, Bagé/RS", got.AddressLine)
}

func TestNormalizeIdentity_ObjectAddressComposed(t *testing.T) {
	record := decodeRecord(t, `{"address":{"street":"Rua A","neighborhood":"Centro","city":"Bagé","stateCode":"RS"}}`)
	assert.Equal(t, "Rua A, Centro, Bagé/RS", NormalizeIdentity(record).AddressLine)
}

func TestNormalizeIdentity_IsAdminFlag(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, NormalizeIdentity(decodeRecord(t, `{"isAdmin":true}`)).Role)
	assert.Equal(t, models.RolePatient, NormalizeIdentity(decodeRecord(t, `{"isAdmin":false}`)).Role)
}

func TestNormalizeIdentity_NeverFails(t *testing.T) {
	records := []string{
		`{}`,
		`{"cpf":null,"address":null}`,
		`{"cpf":{"nested":true},"address":[1,2,3]}`,
		`{"user":"just a string","patient":42}`,
	}
	for _, raw := range records {
		assert.NotPanics(t, func() {
			got := NormalizeIdentity(decodeRecord(t, raw))
			assert.Equal(t, "", got.TaxID)
		}, raw)
	}
}

func TestNormalize_CustomFields(t *testing.T) {
	fields := []FieldSpec{
		{Name: "cep", Kind: FieldDigits, Length: 8, Accessors: []Accessor{At("a", "b", "cep"), At("cep")}},
		{Name: "boxes", Kind: FieldText, Accessors: []Accessor{At("quantidade"), At("numberOfBoxes")}},
		{Name: "upper", Kind: FieldText, Accessors: []Accessor{{
			Path: []string{"code"},
			Extract: func(v any) (string, bool) {
				s, ok := v.(string)
				return "X-" + s, ok
			},
		}}},
		{Name: "missing", Kind: FieldText, Accessors: []Accessor{At("nope")}},
	}
	record := decodeRecord(t, `{"a":{"b":{"cep":"1310100"}},"numberOfBoxes":2,"code":"7"}`)

	got := Normalize(record, fields)

	assert.Equal(t, "01310100", got.Get("cep"))
	assert.Equal(t, "2", got.Get("boxes"))
	assert.Equal(t, "X-7", got.Get("upper"))
	assert.Equal(t, "", got.Get("missing"))
}

func TestNormalizeIdentities(t *testing.T) {
	got := NormalizeIdentities([]Record{{"cpf": "1"}, {"cpf": "2"}})
	require.Len(t, got, 2)
	assert.Equal(t, "00000000001", got[0].TaxID)
	assert.Equal(t, "00000000002", got[1].TaxID)
}
