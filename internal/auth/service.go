package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the JWT claims of an authenticated session. The
// subject is the contact id of the signed-in member.
type SessionClaims struct {
	Email string `json:"email" example:"alice@example.com"`
	Name  string `json:"name" example:"Alice Archer"`
	Admin bool   `json:"admin" example:"false"`
	jwt.RegisteredClaims
}

// csrfTokenData stores one issued CSRF token
type csrfTokenData struct {
	subject   string
	expiresAt time.Time
}

// AuthService verifies session tokens and per-session CSRF tokens. Sessions
// are issued elsewhere (or by the dev login endpoint); this service is the
// consuming side every authenticated route goes through. CSRF tokens live in
// an in-memory store, so mutating calls stick to the instance that issued
// the token.
type AuthService struct {
	config     *AuthConfig
	csrfTokens map[string]*csrfTokenData
	csrfMutex  sync.RWMutex
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	return &AuthService{
		config:     config,
		csrfTokens: make(map[string]*csrfTokenData),
	}, nil
}

// IssueSession creates a signed session token for a contact. Used by the dev
// login endpoint and by tests.
func (s *AuthService) IssueSession(contactID, email, name string, admin bool) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: email,
		Name:  name,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.SessionTTLMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   contactID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateSession validates and parses a session token
func (s *AuthService) ValidateSession(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, apperrors.ErrInvalidSessionToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidSessionToken
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, apperrors.ErrInvalidSessionToken
	}
	return claims, nil
}

// IssueCSRFToken creates a CSRF token bound to the session subject
func (s *AuthService) IssueCSRFToken(subject string) (string, error) {
	token, err := generateRandomString(32)
	if err != nil {
		return "", err
	}

	s.csrfMutex.Lock()
	s.csrfTokens[token] = &csrfTokenData{
		subject:   subject,
		expiresAt: time.Now().Add(time.Duration(s.config.CSRFTTLMinutes) * time.Minute),
	}
	s.pruneExpired()
	s.csrfMutex.Unlock()

	return token, nil
}

// ValidateCSRFToken checks that the token was issued to the given subject and
// has not expired
func (s *AuthService) ValidateCSRFToken(subject, token string) error {
	s.csrfMutex.RLock()
	data, exists := s.csrfTokens[token]
	s.csrfMutex.RUnlock()

	if !exists || data.subject != subject {
		return apperrors.ErrInvalidCSRFToken
	}
	if time.Now().After(data.expiresAt) {
		s.csrfMutex.Lock()
		delete(s.csrfTokens, token)
		s.csrfMutex.Unlock()
		return apperrors.ErrInvalidCSRFToken
	}
	return nil
}

// RevokeCSRFTokens drops every CSRF token issued to the subject; called on
// logout
func (s *AuthService) RevokeCSRFTokens(subject string) {
	s.csrfMutex.Lock()
	defer s.csrfMutex.Unlock()
	for token, data := range s.csrfTokens {
		if data.subject == subject {
			delete(s.csrfTokens, token)
		}
	}
}

// pruneExpired drops expired CSRF tokens; called while holding the lock
func (s *AuthService) pruneExpired() {
	now := time.Now()
	for token, data := range s.csrfTokens {
		if now.After(data.expiresAt) {
			delete(s.csrfTokens, token)
		}
	}
}

// generateRandomString generates a random base64 encoded string
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
