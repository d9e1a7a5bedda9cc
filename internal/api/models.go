package api

import (
	"github.com/decksmith/decksmith/internal/domain"
)

// CreateCardRequest is the request payload for creating a card.
type CreateCardRequest struct {
	DeckPath string             `json:"deck_path" validate:"required"`
	Content  domain.CardContent `json:"content"`
	Category string             `json:"category"  validate:"omitempty,oneof=content jurisprudence"`
}

// UpdateCardRequest is the request payload for editing a card's content
// or location. Scheduling fields are never editable directly.
type UpdateCardRequest struct {
	DeckPath string             `json:"deck_path" validate:"required"`
	Content  domain.CardContent `json:"content"`
	Category string             `json:"category"  validate:"omitempty,oneof=content jurisprudence"`
}

// MoveDeckRequest asks for the subtree at OldPath to relocate to NewPath.
type MoveDeckRequest struct {
	OldPath string `json:"old_path" validate:"required"`
	NewPath string `json:"new_path" validate:"required"`
}

// RenameDeckRequest changes the last segment of Path.
type RenameDeckRequest struct {
	Path    string `json:"path"     validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

// DeleteDeckRequest removes the subtree at Path.
type DeleteDeckRequest struct {
	Path string `json:"path" validate:"required"`
}

// CascadeResponse reports how many cards a move, rename, or delete
// cascade touched. Zero means the path matched nothing.
type CascadeResponse struct {
	Cards int `json:"cards"`
}

// SaveDeckConfigRequest overwrites the step configuration for a deck.
type SaveDeckConfigRequest struct {
	Path   string            `json:"path" validate:"required"`
	Config domain.DeckConfig `json:"config"`
}

// StartSessionRequest opens a study session. A present OwnerID starts a
// shared session over that owner's deck; absent, the session is local.
type StartSessionRequest struct {
	DeckPath string `json:"deck_path"`
	OwnerID  string `json:"owner_id,omitempty"`
	Cramming bool   `json:"cramming"`
}

// SessionResponse describes a session and its current position.
type SessionResponse struct {
	ID        string       `json:"id"`
	Mode      string       `json:"mode"`
	Remaining int          `json:"remaining"`
	Card      *domain.Card `json:"card,omitempty"`
}

// RateCardRequest grades the session's current card.
type RateCardRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// ShareRequest invites a recipient to study a deck.
type ShareRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	DeckPath       string `json:"deck_path"       validate:"required"`
	Role           string `json:"role"            validate:"required,oneof=viewer editor"`
}

// RevokeShareRequest withdraws a previously issued share.
type RevokeShareRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	DeckPath       string `json:"deck_path"       validate:"required"`
	InviteID       string `json:"invite_id"       validate:"required"`
}

// RevokeShareResponse reports how many invites the revocation matched,
// 0 when the share was already absent.
type RevokeShareResponse struct {
	Invites int `json:"invites"`
}
