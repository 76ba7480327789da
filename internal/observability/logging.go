package observability

import (
	"strings"

	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/logging"
)

// Logger returns the global logger instance
func Logger() *zap.Logger {
	return logging.Logger
}

// MaskCPF masks a CPF number for logging
func MaskCPF(cpf string) string {
	if len(cpf) != 11 {
		return "***.***.***-**"
	}
	return cpf[:3] + ".***" + "." + cpf[6:9] + "-**"
}

// sensitiveFields are masked wherever they appear in a logged record,
// compared case-insensitively
var sensitiveFields = []string{
	"cpf", "taxid", "documento",
	"telefone", "celular", "whatsapp", "phone",
	"password", "senha", "token",
}

// MaskSensitiveData masks sensitive data in a map. Nested objects are
// masked recursively.
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))

	for k, v := range data {
		switch {
		case contains(sensitiveFields, strings.ToLower(k)):
			masked[k] = "********"
		default:
			if nested, ok := v.(map[string]interface{}); ok {
				masked[k] = MaskSensitiveData(nested)
			} else {
				masked[k] = v
			}
		}
	}

	return masked
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
