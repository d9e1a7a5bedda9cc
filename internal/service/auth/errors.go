package auth

import "errors"

// Token verification errors
var (
	// ErrInvalidToken indicates the token is malformed, carries a bad
	// signature, or was signed with an unexpected method.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's validity window has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrMissingSubject indicates a structurally valid token that carries
	// no user identity.
	ErrMissingSubject = errors.New("token has no subject")
)
