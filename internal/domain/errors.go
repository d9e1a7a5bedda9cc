// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is the root of every domain validation error. The
	// entity-specific sentinels wrap it, so errors.Is(err, ErrValidation)
	// classifies any of them.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRating is returned when a review rating is not valid.
	ErrInvalidRating = fmt.Errorf("%w: invalid rating", ErrValidation)
)
