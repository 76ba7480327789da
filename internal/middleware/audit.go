package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/observability"
)

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// maxAuditBody caps how much of a request body is read for the audit log
const maxAuditBody = 4096

// AuditMiddleware logs every successful write operation together with
// the acting user. Request bodies are logged with CPFs, phones, passwords
// and tokens masked.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete && method != http.MethodPatch {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/v1/health") || strings.HasPrefix(path, "/metrics") {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status > 299 {
			return
		}

		fields := []zap.Field{
			zap.String("action", mapHTTPMethodToAction(method)),
			zap.String("resource", extractResourceFromPath(path)),
			zap.String("resource_id", extractResourceID(c)),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("ip_address", c.ClientIP()),
			zap.Int("status", status),
		}
		if session, ok := CurrentSession(c); ok {
			fields = append(fields,
				zap.String("user_id", session.User.ID),
				zap.String("role", string(session.User.Role)))
		}
		if body := auditBody(bodyBytes); body != nil {
			fields = append(fields, zap.Any("request_body", body))
		}

		observability.Logger().Info("audit", fields...)
	}
}

// auditBody decodes a JSON object body and masks its sensitive fields.
// Anything else is left out of the log.
func auditBody(raw []byte) map[string]interface{} {
	if len(raw) == 0 || len(raw) > maxAuditBody {
		return nil
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return observability.MaskSensitiveData(body)
}

// mapHTTPMethodToAction maps HTTP methods to audit actions
func mapHTTPMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return AuditActionCreate
	case http.MethodDelete:
		return AuditActionDelete
	default:
		return AuditActionUpdate
	}
}

// extractResourceFromPath extracts the resource type from the request path
func extractResourceFromPath(path string) string {
	path = strings.TrimPrefix(path, "/v1/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}

	switch {
	case strings.HasPrefix(path, "prescriptions/") && strings.HasSuffix(path, "/status"):
		return "prescription_status"
	case strings.HasPrefix(path, "prescriptions"):
		return "prescription"
	case strings.HasPrefix(path, "identities"):
		return "identity"
	default:
		return parts[0]
	}
}

// extractResourceID returns the :id route parameter, if any
func extractResourceID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return ""
}
