package domain

import (
	"errors"
	"testing"
)

func TestValidationSentinelsWrapRoot(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sentinels := []error{
		ErrEmptyDeckPath,
		ErrEmptyPathSegment,
		ErrSeparatorInSegment,
		ErrCardIDEmpty,
		ErrCardFrontEmpty,
		ErrCardFormatInvalid,
		ErrCardAnswerMissing,
		ErrCardAnswerInvalid,
		ErrCardAnswerUnexpected,
		ErrCardCategoryInvalid,
		ErrNegativeInterval,
		ErrEaseTooLow,
		ErrRuleMagnitudeInvalid,
		ErrRuleUnitInvalid,
		ErrShareOwnerEmpty,
		ErrShareRecipientEmpty,
		ErrShareRoleInvalid,
		ErrInvalidRating,
	}

	for _, sentinel := range sentinels {
		if !errors.Is(sentinel, ErrValidation) {
			t.Errorf("Expected %v to wrap the validation root", sentinel)
		}
	}
}
