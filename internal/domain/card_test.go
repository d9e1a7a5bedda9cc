package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCard(t *testing.T) {
	t.Parallel() // Enable parallel execution

	deckPath := DeckPath{"Law", "Civil"}
	content := CardContent{Format: FormatBasic, Front: "What is consideration?", Back: "A bargained-for exchange"}

	card, err := NewCard(deckPath, content, CategoryContent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if !card.DeckPath.Equal(deckPath) {
		t.Errorf("Expected deck path %v, got %v", deckPath, card.DeckPath)
	}

	// New cards start unscheduled and immediately due.
	if !card.Scheduling.IsNew() {
		t.Error("Expected new card to have interval 0")
	}
	if card.Scheduling.Ease != DefaultEase {
		t.Errorf("Expected default ease %v, got %v", DefaultEase, card.Scheduling.Ease)
	}
	if !card.Scheduling.IsDue(time.Now().UTC()) {
		t.Error("Expected new card to be due immediately")
	}

	if card.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestCardContentValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name    string
		content CardContent
		wantErr error
	}{
		{
			name:    "valid basic",
			content: CardContent{Format: FormatBasic, Front: "f", Back: "b"},
		},
		{
			name:    "valid cloze without back",
			content: CardContent{Format: FormatCloze, Front: "the {{c1::answer}}"},
		},
		{
			name:    "valid objective",
			content: CardContent{Format: FormatObjective, Front: "f", Back: "b", CorrectAnswer: AnswerWrong},
		},
		{
			name:    "objective missing answer",
			content: CardContent{Format: FormatObjective, Front: "f", Back: "b"},
			wantErr: ErrCardAnswerMissing,
		},
		{
			name:    "objective bad answer",
			content: CardContent{Format: FormatObjective, Front: "f", CorrectAnswer: "maybe"},
			wantErr: ErrCardAnswerInvalid,
		},
		{
			name:    "basic with answer key",
			content: CardContent{Format: FormatBasic, Front: "f", CorrectAnswer: AnswerCorrect},
			wantErr: ErrCardAnswerUnexpected,
		},
		{
			name:    "unknown format",
			content: CardContent{Format: "image", Front: "f"},
			wantErr: ErrCardFormatInvalid,
		},
		{
			name:    "empty front",
			content: CardContent{Format: FormatBasic, Back: "b"},
			wantErr: ErrCardFrontEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.content.Validate()
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSchedulingStateValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Now().UTC()

	valid := NewSchedulingState(now)
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	negative := SchedulingState{Interval: -1, Ease: 2.5, NextReviewAt: now}
	if err := negative.Validate(); err != ErrNegativeInterval {
		t.Errorf("Expected %v, got %v", ErrNegativeInterval, err)
	}

	lowEase := SchedulingState{Interval: 1, Ease: 1.2, NextReviewAt: now}
	if err := lowEase.Validate(); err != ErrEaseTooLow {
		t.Errorf("Expected %v, got %v", ErrEaseTooLow, err)
	}
}

func TestSchedulingStateDue(t *testing.T) {
	t.Parallel() // Enable parallel execution

	now := time.Now().UTC()

	scheduled := SchedulingState{Interval: 3, Ease: 2.5, NextReviewAt: now.Add(48 * time.Hour)}
	if scheduled.IsDue(now) {
		t.Error("Expected future card not to be due")
	}
	if !scheduled.IsDue(now.Add(72 * time.Hour)) {
		t.Error("Expected past card to be due")
	}

	// Interval 0 means due regardless of the timestamp.
	fresh := SchedulingState{Interval: 0, Ease: 2.5, NextReviewAt: now.Add(48 * time.Hour)}
	if !fresh.IsDue(now) {
		t.Error("Expected new card to be due regardless of next review time")
	}
}

func TestCardClone(t *testing.T) {
	t.Parallel() // Enable parallel execution

	card, err := NewCard(DeckPath{"Law"}, CardContent{Format: FormatBasic, Front: "f", Back: "b"}, CategoryContent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	clone := card.Clone()
	clone.DeckPath[0] = "Changed"
	clone.Scheduling.Interval = 99

	if card.DeckPath[0] != "Law" {
		t.Error("Expected clone mutation not to affect original deck path")
	}
	if card.Scheduling.Interval != 0 {
		t.Error("Expected clone mutation not to affect original scheduling")
	}
}
