// Package auth verifies the identity tokens minted by the external
// identity provider. Credential flows (signup, login, refresh) live with
// that provider; this engine only checks the shared-secret signature and
// extracts the opaque user ID and email it keys all storage by.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/decksmith/decksmith/internal/config"
	"github.com/decksmith/decksmith/internal/domain"
)

// Identity is what a verified token asserts about the caller.
type Identity struct {
	UserID domain.UserID
	Email  string
}

// TokenVerifier validates an identity token and extracts its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*Identity, error)
}

// hmacVerifier validates HMAC-SHA256 signed tokens.
type hmacVerifier struct {
	signingKey []byte
	clockSkew  time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var _ TokenVerifier = (*hmacVerifier)(nil)

// NewTokenVerifier creates a verifier over the shared signing secret.
func NewTokenVerifier(cfg config.AuthConfig) (TokenVerifier, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &hmacVerifier{
		signingKey: []byte(cfg.JWTSecret),
		clockSkew:  2 * time.Minute,
		timeFunc:   time.Now,
	}, nil
}

// VerifyToken checks the signature and validity window and returns the
// asserted identity. The subject claim is the opaque user ID.
func (v *hmacVerifier) VerifyToken(ctx context.Context, tokenString string) (*Identity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(v.timeFunc),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&identityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return &Identity{
		UserID: domain.UserID(claims.Subject),
		Email:  claims.Email,
	}, nil
}
