package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShareRole is the access level granted by a share invite.
type ShareRole string

// Possible share roles
const (
	RoleViewer ShareRole = "viewer"
	RoleEditor ShareRole = "editor"
)

// Valid reports whether r is a recognized role.
func (r ShareRole) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// Share validation errors
var (
	ErrShareOwnerEmpty     = fmt.Errorf("%w: share owner ID cannot be empty", ErrValidation)
	ErrShareRecipientEmpty = fmt.Errorf("%w: share recipient email cannot be empty", ErrValidation)
	ErrShareRoleInvalid    = fmt.Errorf("%w: share role must be viewer or editor", ErrValidation)
)

// UserID is the opaque identity handed out by the external identity
// collaborator. The engine never inspects its structure.
type UserID string

// ShareInvite grants a recipient study access to one of the owner's decks.
// One invite is written to two locations: the recipient's inbox and the
// owner's outgoing registry.
type ShareInvite struct {
	InviteID       string    `json:"invite_id"`
	OwnerID        UserID    `json:"owner_id"`
	RecipientEmail string    `json:"recipient_email"`
	DeckPath       DeckPath  `json:"deck_path"`
	Role           ShareRole `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewShareInvite creates a validated invite. The invite ID is left for the
// store to mint so it can double as the store child key.
func NewShareInvite(ownerID UserID, recipientEmail string, deckPath DeckPath, role ShareRole) (*ShareInvite, error) {
	invite := &ShareInvite{
		OwnerID:        ownerID,
		RecipientEmail: strings.ToLower(strings.TrimSpace(recipientEmail)),
		DeckPath:       deckPath.Clone(),
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	if err := invite.Validate(); err != nil {
		return nil, err
	}

	return invite, nil
}

// Validate checks the invite fields. The invite ID is allowed to be empty
// before the store has minted one.
func (i *ShareInvite) Validate() error {
	if i.OwnerID == "" {
		return ErrShareOwnerEmpty
	}
	if i.RecipientEmail == "" || !strings.Contains(i.RecipientEmail, "@") {
		return ErrShareRecipientEmpty
	}
	if err := i.DeckPath.Validate(); err != nil {
		return err
	}
	if !i.Role.Valid() {
		return ErrShareRoleInvalid
	}
	return nil
}

// SharedProgress is a recipient's private scheduling record for a card whose
// content is owned by another user. It deliberately has no content fields
// and is never read or written by the owner.
type SharedProgress struct {
	RecipientID UserID          `json:"recipient_id"`
	OwnerID     UserID          `json:"owner_id"`
	CardID      uuid.UUID       `json:"card_id"`
	Scheduling  SchedulingState `json:"scheduling"`
}

// Validate checks the progress record's key fields and scheduling invariants.
func (p *SharedProgress) Validate() error {
	if p.RecipientID == "" || p.OwnerID == "" {
		return ErrShareOwnerEmpty
	}
	if p.CardID == uuid.Nil {
		return ErrCardIDEmpty
	}
	return p.Scheduling.Validate()
}
