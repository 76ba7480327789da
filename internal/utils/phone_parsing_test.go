package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		phoneString string
		wantDDI     string
		wantDDD     string
		wantValor   string
		wantErr     bool
	}{
		{
			name:        "Brazilian mobile with country code",
			phoneString: "+5553999999999",
			wantDDI:     "55",
			wantDDD:     "53",
			wantValor:   "999999999",
		},
		{
			name:        "Brazilian mobile without plus",
			phoneString: "5553999999999",
			wantDDI:     "55",
			wantDDD:     "53",
			wantValor:   "999999999",
		},
		{
			name:        "Brazilian mobile without country code",
			phoneString: "53999999999",
			wantDDI:     "55",
			wantDDD:     "53",
			wantValor:   "999999999",
		},
		{
			name:        "Formatted mobile",
			phoneString: "(21) 98765-4321",
			wantDDI:     "55",
			wantDDD:     "21",
			wantValor:   "987654321",
		},
		{
			name:        "Brazilian landline",
			phoneString: "+555332421234",
			wantDDI:     "55",
			wantDDD:     "53",
			wantValor:   "32421234",
		},
		{
			name:        "Empty",
			phoneString: "",
			wantErr:     true,
		},
		{
			name:        "Too short",
			phoneString: "123",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhoneNumber(tt.phoneString)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDDI, got.DDI)
			assert.Equal(t, tt.wantDDD, got.DDD)
			assert.Equal(t, tt.wantValor, got.Valor)
			assert.Equal(t, "+"+tt.wantDDI+tt.wantDDD+tt.wantValor, got.Full)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "53999999999", NormalizePhone("(53) 99999-9999"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestFormatPhoneForDisplay(t *testing.T) {
	assert.Equal(t, "(53) 99999-9999", FormatPhoneForDisplay("53999999999"))
	assert.Equal(t, "garbage", FormatPhoneForDisplay("garbage"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("53999999999"))
	assert.False(t, IsValidPhone("99"))
}
