package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a wizard session token
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	FormID    string `json:"formId"`
	jwt.RegisteredClaims
}

// CreateSessionResponse is returned when a wizard session starts
type CreateSessionResponse struct {
	SessionID string     `json:"sessionId"`
	Token     string     `json:"token"`
	State     *FormState `json:"state"`
}
