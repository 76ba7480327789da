package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session replaces the browser-side `token` + `user` storage keys.
// It is created on login (or when a token is first presented) and
// removed on logout.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      Identity  `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TokenClaims are the claims read from the backend-issued bearer token
type TokenClaims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the self-registration payload forwarded to the backend
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Password string   `json:"password" binding:"required"`
	CPF      string   `json:"cpf,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// SessionResponse is returned to the client after login
type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	User      Identity  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterResponse is returned after self-registration. Session is set
// only when the backend logged the new account in.
type RegisterResponse struct {
	User    Identity         `json:"user"`
	Session *SessionResponse `json:"session,omitempty"`
}
