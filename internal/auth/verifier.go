package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rscoates/magic-library/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens for the API.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns its claims
	VerifyToken(tokenString string) (*jwt.RegisteredClaims, error)
}

// HS256Verifier validates tokens signed with a shared HMAC secret.
type HS256Verifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHS256Verifier creates a token verifier using the shared secret.
func NewHS256Verifier(secret string, logger *slog.Logger) (*HS256Verifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HS256Verifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates a token and returns its registered claims.
func (v *HS256Verifier) VerifyToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Reject anything but the expected HMAC algorithm
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
