package models

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionStore       = errors.New("session store unavailable")
	ErrInvalidToken       = errors.New("invalid token")
	ErrBackendTimeout     = errors.New("backend request timed out")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrImageUnavailable   = errors.New("no image candidate could be loaded")
	ErrEmptySearchQuery   = errors.New("patient search requires cpf, name or phone")
	ErrPlaceholderExhaust = errors.New("could not draw a placeholder tax id without collision")
)
