package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// SharedOutEntry is the owner-side registry record of one share. It tags
// the owner's own view of the deck as shared and carries what revocation
// needs to find the paired inbox record.
type SharedOutEntry struct {
	Email    string           `json:"email"`
	Role     domain.ShareRole `json:"role"`
	InviteID string           `json:"invite_id"`
}

// ShareStore persists share invites. One invite is always two records: the
// recipient's global inbox entry and the owner's outgoing registry entry.
// Creation and revocation each touch both in a single atomic batch.
type ShareStore struct {
	kv     KeyedStore
	logger *slog.Logger
}

// NewShareStore creates a ShareStore over the given keyed store.
// If logger is nil, a default logger will be used.
func NewShareStore(kv KeyedStore, logger *slog.Logger) *ShareStore {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ShareStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "share_store")),
	}
}

// CreateInvite mints an invite ID and writes the paired records in one
// atomic batch. The returned invite carries the minted ID.
func (s *ShareStore) CreateInvite(ctx context.Context, invite *domain.ShareInvite) (*domain.ShareInvite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invite.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	inviteID, err := s.kv.Push(ctx, InboxRoot(invite.RecipientEmail))
	if err != nil {
		log.Error("failed to mint invite ID", slog.String("error", err.Error()))
		return nil, err
	}

	created := *invite
	created.InviteID = inviteID

	values := map[string]any{
		InvitePath(created.RecipientEmail, inviteID): &created,
		SharedOutPath(created.OwnerID, created.DeckPath, created.RecipientEmail): SharedOutEntry{
			Email:    created.RecipientEmail,
			Role:     created.Role,
			InviteID: inviteID,
		},
	}

	if err := s.kv.Update(ctx, values); err != nil {
		log.Error("failed to create invite",
			slog.String("error", err.Error()),
			slog.String("deck", created.DeckPath.String()))
		return nil, NewStoreError("invite", "create", "paired write rejected", err)
	}

	log.Info("invite created",
		slog.String("invite_id", inviteID),
		slog.String("deck", created.DeckPath.String()))
	return &created, nil
}

// RevokeInvite removes the paired records in one atomic batch and reports
// how many invites matched, so callers can tell a real revocation from a
// no-op. Revoking an already-revoked invite is idempotent: the count is 0
// and the batch simply clears absent paths again. The recipient's private
// progress is left alone; its lifetime is bound to the recipient's
// account, not to the invite.
func (s *ShareStore) RevokeInvite(ctx context.Context, owner domain.UserID, deckPath domain.DeckPath, recipientEmail, inviteID string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	matched := 0
	if _, err := s.kv.Get(ctx, InvitePath(recipientEmail, inviteID)); err == nil {
		matched = 1
	} else if !errors.Is(err, ErrNotFound) {
		log.Error("failed to read invite",
			slog.String("error", err.Error()),
			slog.String("invite_id", inviteID))
		return 0, err
	}

	values := map[string]any{
		InvitePath(recipientEmail, inviteID):          nil,
		SharedOutPath(owner, deckPath, recipientEmail): nil,
	}

	if err := s.kv.Update(ctx, values); err != nil {
		log.Error("failed to revoke invite",
			slog.String("error", err.Error()),
			slog.String("invite_id", inviteID))
		return 0, NewStoreError("invite", "revoke", "paired removal rejected", err)
	}

	log.Info("invite revoked",
		slog.String("invite_id", inviteID),
		slog.Int("matched", matched))
	return matched, nil
}

// ListInbox retrieves every invite addressed to the recipient. An empty
// inbox yields an empty slice, not an error.
func (s *ShareStore) ListInbox(ctx context.Context, recipientEmail string) ([]*domain.ShareInvite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.kv.Snapshot(ctx, InboxRoot(recipientEmail))
	if err != nil {
		log.Error("failed to list inbox", slog.String("error", err.Error()))
		return nil, err
	}

	invites := make([]*domain.ShareInvite, 0, len(snapshot))
	for key, raw := range snapshot {
		var invite domain.ShareInvite
		if err := json.Unmarshal(raw, &invite); err != nil {
			return nil, fmt.Errorf("%w: stored invite %s: %w", ErrInvalidEntity, key, err)
		}
		invites = append(invites, &invite)
	}
	return invites, nil
}

// ListSharedOut retrieves the owner's outgoing registry, keyed by deck
// path. Each deck maps to the recipients it is shared with.
func (s *ShareStore) ListSharedOut(ctx context.Context, owner domain.UserID) (map[string][]SharedOutEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.kv.Snapshot(ctx, SharedOutRoot(owner))
	if err != nil {
		log.Error("failed to list outgoing shares", slog.String("error", err.Error()))
		return nil, err
	}

	out := make(map[string][]SharedOutEntry)
	for key, raw := range snapshot {
		// Keys are deckKey/recipientKey relative to the registry root.
		deckKey, _, found := strings.Cut(key, "/")
		if !found {
			return nil, fmt.Errorf("%w: registry key %q", ErrInvalidPath, key)
		}
		deckPath, err := DeckPathFromKey(deckKey)
		if err != nil {
			return nil, err
		}

		var entry SharedOutEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%w: stored registry entry %s: %w", ErrInvalidEntity, key, err)
		}
		out[deckPath.String()] = append(out[deckPath.String()], entry)
	}
	return out, nil
}
