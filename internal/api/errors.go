package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/domain/srs"
	"github.com/decksmith/decksmith/internal/service/auth"
	"github.com/decksmith/decksmith/internal/service/hierarchy"
	"github.com/decksmith/decksmith/internal/service/sharing"
	"github.com/decksmith/decksmith/internal/service/study"
	"github.com/decksmith/decksmith/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingSubject):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, study.ErrSessionNotFound):
		return http.StatusNotFound

	// Rejected hierarchy operations
	case errors.Is(err, hierarchy.ErrSamePath),
		errors.Is(err, hierarchy.ErrCyclicMove):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, srs.ErrInvalidRating),
		errors.Is(err, sharing.ErrSelfShare),
		errors.Is(err, hierarchy.ErrEmptyName),
		errors.Is(err, study.ErrQueueExhausted):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Internal detail stays in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingSubject):
		return "Invalid token"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrConfigNotFound):
		return "Deck configuration not found"

	case errors.Is(err, store.ErrInviteNotFound):
		return "Share invite not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress record not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, study.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, study.ErrQueueExhausted):
		return "Session has no cards left"

	case errors.Is(err, hierarchy.ErrSamePath):
		return "Target deck is the same as the source"

	case errors.Is(err, hierarchy.ErrCyclicMove):
		return "Cannot move a deck into itself"

	case errors.Is(err, hierarchy.ErrEmptyName):
		return "Deck name cannot be empty"

	case errors.Is(err, sharing.ErrSelfShare):
		return "Cannot share a deck with yourself"

	case errors.Is(err, srs.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, domain.ErrSeparatorInSegment):
		return "Deck names cannot contain the path separator"

	case errors.Is(err, domain.ErrEmptyDeckPath),
		errors.Is(err, domain.ErrEmptyPathSegment):
		return "Deck path segments cannot be empty"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a tag-validator error into a compact
// user-facing message without echoing submitted values.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Format: "Key: 'Req.Field' Error:Field validation for 'Field' failed on the 'tag' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
