package models

import "encoding/json"

// APIEnvelope is the response shape of the clinic backend:
// { success, data|user, token?, message? }
type APIEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
	Token   string          `json:"token,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Payload returns data when present, user otherwise
func (e *APIEnvelope) Payload() json.RawMessage {
	if len(e.Data) > 0 && string(e.Data) != "null" {
		return e.Data
	}
	if len(e.User) > 0 && string(e.User) != "null" {
		return e.User
	}
	return nil
}
