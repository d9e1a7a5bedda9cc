package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardFormat distinguishes the content variants a card can carry.
type CardFormat string

// Possible card formats
const (
	FormatBasic     CardFormat = "basic"
	FormatCloze     CardFormat = "cloze"
	FormatObjective CardFormat = "objective"
)

// ObjectiveAnswer is the required answer key on objective-format cards.
type ObjectiveAnswer string

// Possible objective answers
const (
	AnswerCorrect ObjectiveAnswer = "correct"
	AnswerWrong   ObjectiveAnswer = "wrong"
)

// Category classifies a card's subject matter.
type Category string

// Possible categories
const (
	CategoryContent       Category = "content"
	CategoryJurisprudence Category = "jurisprudence"
)

// Card-specific validation errors. Each wraps ErrValidation so transport
// layers can classify the whole family without enumerating it.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardFrontEmpty is returned when a card's front side is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardFormatInvalid is returned when a card's format is not recognized.
	ErrCardFormatInvalid = fmt.Errorf("%w: card format must be basic, cloze, or objective", ErrValidation)

	// ErrCardAnswerMissing is returned when an objective card has no answer key.
	ErrCardAnswerMissing = fmt.Errorf("%w: objective card requires a correct answer selection", ErrValidation)

	// ErrCardAnswerInvalid is returned when an objective answer is not recognized.
	ErrCardAnswerInvalid = fmt.Errorf("%w: objective answer must be correct or wrong", ErrValidation)

	// ErrCardAnswerUnexpected is returned when a non-objective card carries an answer key.
	ErrCardAnswerUnexpected = fmt.Errorf("%w: only objective cards carry an answer key", ErrValidation)

	// ErrCardCategoryInvalid is returned when a card's category is not recognized.
	ErrCardCategoryInvalid = fmt.Errorf("%w: card category must be content or jurisprudence", ErrValidation)
)

// CardContent is the tagged content variant of a card. Front and back are
// opaque blobs to the engine; the format tag decides which fields are
// meaningful. CorrectAnswer is set exactly for objective cards.
type CardContent struct {
	Format        CardFormat      `json:"format"`
	Front         string          `json:"front"`
	Back          string          `json:"back,omitempty"`
	CorrectAnswer ObjectiveAnswer `json:"correct_answer,omitempty"`
}

// Validate checks the content variant's internal consistency.
func (c CardContent) Validate() error {
	switch c.Format {
	case FormatBasic, FormatCloze:
		if c.CorrectAnswer != "" {
			return ErrCardAnswerUnexpected
		}
	case FormatObjective:
		if c.CorrectAnswer == "" {
			return ErrCardAnswerMissing
		}
		if c.CorrectAnswer != AnswerCorrect && c.CorrectAnswer != AnswerWrong {
			return ErrCardAnswerInvalid
		}
	default:
		return ErrCardFormatInvalid
	}
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	return nil
}

// Card is a flashcard owned by a single user, addressed by its deck path.
// Content fields are mutable only by the owner; scheduling fields change
// only as the result of rating.
type Card struct {
	ID         uuid.UUID       `json:"id"`
	DeckPath   DeckPath        `json:"deck_path"`
	Content    CardContent     `json:"content"`
	Category   Category        `json:"category"`
	Scheduling SchedulingState `json:"scheduling"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCard creates a card in the given deck with new-card scheduling
// defaults: interval 0, default ease, due immediately.
// Returns an error if validation fails.
func NewCard(deckPath DeckPath, content CardContent, category Category) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		DeckPath:   deckPath.Clone(),
		Content:    content,
		Category:   category,
		Scheduling: NewSchedulingState(now),
		CreatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if err := c.DeckPath.Validate(); err != nil {
		return err
	}

	if err := c.Content.Validate(); err != nil {
		return err
	}

	if c.Category != CategoryContent && c.Category != CategoryJurisprudence {
		return ErrCardCategoryInvalid
	}

	return c.Scheduling.Validate()
}

// Clone returns a deep copy of the card. Stores hand out clones so callers
// never alias persisted state.
func (c *Card) Clone() *Card {
	out := *c
	out.DeckPath = c.DeckPath.Clone()
	if c.Scheduling.LastReviewedAt != nil {
		t := *c.Scheduling.LastReviewedAt
		out.Scheduling.LastReviewedAt = &t
	}
	if c.Scheduling.LastRating != nil {
		r := *c.Scheduling.LastRating
		out.Scheduling.LastRating = &r
	}
	return &out
}
