package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gradpath/internal/model"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrSessionMismatch = errors.New("token does not grant access to this session")
)

// AuthService issues and validates session-scoped tokens
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// GenerateSessionToken creates a token for one wizard session
func (s *AuthService) GenerateSessionToken(sessionID, formID string) (string, error) {
	now := time.Now()
	claims := &model.SessionClaims{
		SessionID: sessionID,
		FormID:    formID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)), // matches the session store TTL
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authorize validates a token and checks it belongs to sessionID
func (s *AuthService) Authorize(tokenString, sessionID string) (*model.SessionClaims, error) {
	claims, err := s.ValidateSessionToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.SessionID != sessionID {
		return nil, ErrSessionMismatch
	}
	return claims, nil
}
