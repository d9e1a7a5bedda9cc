package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Callers generally treat it as an empty/default result rather than a failure;
	// see the entity-specific variants below.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidPath is returned when a store path or path component is malformed.
	ErrInvalidPath = errors.New("invalid store path")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the requested card does not exist in the store.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrConfigNotFound indicates that no deck configuration is saved for the deck.
	// Callers substitute domain.DefaultDeckConfig().
	ErrConfigNotFound = fmt.Errorf("%w: deck config", ErrNotFound)

	// ErrInviteNotFound indicates that the requested share invite does not exist.
	ErrInviteNotFound = fmt.Errorf("%w: share invite", ErrNotFound)

	// ErrProgressNotFound indicates that the recipient has no saved progress for
	// the card. Callers substitute new-card scheduling defaults.
	ErrProgressNotFound = fmt.Errorf("%w: shared progress", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific variants.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "card", "invite")
	Operation string // The operation that failed (e.g., "create", "move")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
