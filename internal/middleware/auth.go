package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
)

// SessionKey is the gin context key holding the *models.Session
const SessionKey = "session"

// SessionStore is the part of the session service the middleware needs
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.Session, error)
	Init(ctx context.Context, token string) (*models.Session, error)
}

// BearerToken returns the token of an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// SessionAuth resolves the bearer token to a session. A token seen for
// the first time opens a session.
func SessionAuth(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}
		token, ok := BearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		session, err := store.Get(ctx, token)
		if errors.Is(err, models.ErrSessionNotFound) {
			session, err = store.Init(ctx, token)
		}
		if err != nil {
			status := http.StatusUnauthorized
			message := "Invalid or expired session"
			if errors.Is(err, models.ErrSessionStore) {
				status = http.StatusServiceUnavailable
				message = "Session store unavailable"
			} else if !errors.Is(err, models.ErrInvalidToken) && !errors.Is(err, models.ErrSessionExpired) && !isUnauthorized(err) {
				status = http.StatusBadGateway
				message = "session lookup failed"
			}
			observability.Logger().Info("session rejected", zap.Error(err), zap.Int("status", status))
			c.JSON(status, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// isUnauthorized reports whether err carries a 401/403 from the backend
func isUnauthorized(err error) bool {
	var withStatus interface{ HTTPStatus() int }
	if errors.As(err, &withStatus) {
		s := withStatus.HTTPStatus()
		return s == http.StatusUnauthorized || s == http.StatusForbidden
	}
	return false
}

// CurrentSession returns the session set by SessionAuth
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*models.Session)
	return session, ok
}

// RequireAdmin checks if the user has admin privileges
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			c.Abort()
			return
		}
		if !session.User.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
