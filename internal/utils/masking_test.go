package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		want     string
	}{
		{"three parts", "João Silva Santos", "João S**** S*****"},
		{"two parts", "Maria Souza", "Maria S****"},
		{"single word", "Ângela", "Â*****"},
		{"single letter surname", "Pedro A", "Pedro A"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskName(tt.fullName))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "m****@example.com", MaskEmail("maria@example.com"))
	assert.Equal(t, "a**", MaskEmail("abc"))
	assert.Equal(t, "@*", MaskEmail("@x"))
}
