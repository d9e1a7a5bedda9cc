package domain

import "fmt"

// StepUnit is the unit a deck rule magnitude is expressed in.
type StepUnit string

// Possible step units
const (
	UnitDays    StepUnit = "days"
	UnitMinutes StepUnit = "minutes"
)

// Deck config validation errors
var (
	ErrRuleMagnitudeInvalid = fmt.Errorf("%w: rule magnitude must be greater than 0", ErrValidation)
	ErrRuleUnitInvalid      = fmt.Errorf("%w: rule unit must be days or minutes", ErrValidation)
)

// StepRule controls how one rating grows a card's interval: either a
// multiplier on the prior interval (days) or a fixed short delay (minutes).
type StepRule struct {
	Magnitude float64  `json:"magnitude"`
	Unit      StepUnit `json:"unit"`
}

// Validate checks a single rule.
func (r StepRule) Validate() error {
	if r.Magnitude <= 0 {
		return ErrRuleMagnitudeInvalid
	}
	if r.Unit != UnitDays && r.Unit != UnitMinutes {
		return ErrRuleUnitInvalid
	}
	return nil
}

// DeckConfig holds the per-deck scheduling rules. Configs are keyed by deck
// path and saved wholesale; decks without a saved config use the defaults.
type DeckConfig struct {
	Hard      StepRule `json:"hard"`
	Good      StepRule `json:"good"`
	EasyBonus StepRule `json:"easy_bonus"`
}

// DefaultDeckConfig returns the rules applied to unconfigured decks:
// hard 1.2 days, good 2.5 days, easy bonus 3.5 days.
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		Hard:      StepRule{Magnitude: 1.2, Unit: UnitDays},
		Good:      StepRule{Magnitude: 2.5, Unit: UnitDays},
		EasyBonus: StepRule{Magnitude: 3.5, Unit: UnitDays},
	}
}

// Validate checks all three rule slots.
func (c DeckConfig) Validate() error {
	if err := c.Hard.Validate(); err != nil {
		return err
	}
	if err := c.Good.Validate(); err != nil {
		return err
	}
	return c.EasyBonus.Validate()
}
