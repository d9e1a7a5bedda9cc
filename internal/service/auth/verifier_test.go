package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decksmith/decksmith/internal/config"
	"github.com/decksmith/decksmith/internal/domain"
)

const testSecret = "test-secret-with-at-least-32-characters!"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	var key interface{} = []byte(secret)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newVerifier(t *testing.T, now time.Time) *hmacVerifier {
	t.Helper()
	v, err := NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	impl := v.(*hmacVerifier)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewTokenVerifierRejectsShortSecret(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := NewTokenVerifier(config.AuthConfig{JWTSecret: "too-short"})
	assert.Error(t, err)
}

func TestVerifyToken(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("valid token yields the asserted identity", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		v := newVerifier(t, now)
		token := signToken(t, testSecret, jwt.SigningMethodHS256, identityClaims{
			Email: "owner@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})

		identity, err := v.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("user-1"), identity.UserID)
		assert.Equal(t, "owner@example.com", identity.Email)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		v := newVerifier(t, now)
		token := signToken(t, testSecret, jwt.SigningMethodHS256, identityClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			},
		})

		_, err := v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		v := newVerifier(t, now)
		token := signToken(t, "another-secret-that-is-32-chars-long!!", jwt.SigningMethodHS256, identityClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})

		_, err := v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		v := newVerifier(t, now)
		token := signToken(t, testSecret, jwt.SigningMethodHS256, identityClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})

		_, err := v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		v := newVerifier(t, now)
		_, err := v.VerifyToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
