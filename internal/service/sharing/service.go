// Package sharing implements deck sharing: invite and revocation flows
// over the paired inbox/registry records, and the merge that overlays a
// recipient's private progress onto the owner's card content for study.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// ErrSelfShare is returned when an owner invites their own email.
var ErrSelfShare = errors.New("cannot share a deck with yourself")

// CardLister reads a user's full card collection. Implemented by
// store.CardStore.
type CardLister interface {
	List(ctx context.Context, uid domain.UserID) ([]*domain.Card, error)
}

// ShareRepository persists invites. Implemented by store.ShareStore.
type ShareRepository interface {
	CreateInvite(ctx context.Context, invite *domain.ShareInvite) (*domain.ShareInvite, error)
	RevokeInvite(ctx context.Context, owner domain.UserID, deckPath domain.DeckPath, recipientEmail, inviteID string) (int, error)
	ListInbox(ctx context.Context, recipientEmail string) ([]*domain.ShareInvite, error)
}

// ProgressRepository reads a recipient's private scheduling records for
// one owner. Implemented by store.ProgressStore.
type ProgressRepository interface {
	ListForOwner(ctx context.Context, recipient, owner domain.UserID) (map[uuid.UUID]domain.SchedulingState, error)
}

// SharedDeck is one inbox entry decorated with merged study counts, so a
// recipient's deck list can show due work without opening each share.
type SharedDeck struct {
	Invite *domain.ShareInvite `json:"invite"`
	Total  int                 `json:"total"`
	New    int                 `json:"new"`
	Due    int                 `json:"due"`
}

// Service coordinates share invites and the content/progress merge.
type Service struct {
	cards    CardLister
	shares   ShareRepository
	progress ProgressRepository
	logger   *slog.Logger
}

// NewService creates a sharing service.
func NewService(cards CardLister, shares ShareRepository, progress ProgressRepository, logger *slog.Logger) *Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if shares == nil {
		panic("shares cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cards:    cards,
		shares:   shares,
		progress: progress,
		logger:   logger.With(slog.String("component", "sharing_service")),
	}
}

// Invite shares the deck at deckPath with recipientEmail. The owner's own
// email is rejected as a recipient; emails are compared after the same
// normalization the store keys apply.
func (s *Service) Invite(ctx context.Context, ownerID domain.UserID, ownerEmail, recipientEmail string, deckPath domain.DeckPath, role domain.ShareRole) (*domain.ShareInvite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if normalizeEmail(recipientEmail) == normalizeEmail(ownerEmail) {
		return nil, ErrSelfShare
	}

	invite, err := domain.NewShareInvite(ownerID, recipientEmail, deckPath, role)
	if err != nil {
		return nil, err
	}

	created, err := s.shares.CreateInvite(ctx, invite)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	log.Info("deck shared",
		slog.String("deck", deckPath.String()),
		slog.String("role", string(role)))
	return created, nil
}

// Revoke withdraws a share and reports how many invites matched: 1 for a
// real revocation, 0 for an already-absent share. Both succeed. The
// recipient's private progress records are left in place; they become
// unreachable rather than destroyed, so a re-share resumes where the
// recipient left off.
func (s *Service) Revoke(ctx context.Context, owner domain.UserID, deckPath domain.DeckPath, recipientEmail, inviteID string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	matched, err := s.shares.RevokeInvite(ctx, owner, deckPath, recipientEmail, inviteID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke invite: %w", err)
	}

	log.Info("share revoked",
		slog.String("deck", deckPath.String()),
		slog.Int("matched", matched))
	return matched, nil
}

// ListSharedDecks returns the recipient's inbox with merged counts: for
// each invite, how many cards the shared deck holds and how many are new
// or due under the recipient's own progress.
func (s *Service) ListSharedDecks(ctx context.Context, recipient domain.UserID, recipientEmail string, now time.Time) ([]*SharedDeck, error) {
	invites, err := s.shares.ListInbox(ctx, recipientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	decks := make([]*SharedDeck, 0, len(invites))
	for _, invite := range invites {
		merged, err := s.MergeForStudy(ctx, invite.OwnerID, recipient, invite.DeckPath, now)
		if err != nil {
			return nil, err
		}

		deck := &SharedDeck{Invite: invite, Total: len(merged)}
		for _, card := range merged {
			if card.Scheduling.IsNew() {
				deck.New++
			}
			if card.Scheduling.IsDue(now) {
				deck.Due++
			}
		}
		decks = append(decks, deck)
	}

	return decks, nil
}

// MergeForStudy produces the recipient's view of the owner's deck at
// deckPath: card content always comes from the owner's current copy,
// scheduling from the recipient's private progress. A card the recipient
// has never rated merges as a new card due now. The returned cards are
// clones; rating them never touches the owner's records.
func (s *Service) MergeForStudy(ctx context.Context, owner, recipient domain.UserID, deckPath domain.DeckPath, now time.Time) ([]*domain.Card, error) {
	ownerCards, err := s.cards.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner cards: %w", err)
	}

	progress, err := s.progress.ListForOwner(ctx, recipient, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	var merged []*domain.Card
	for _, card := range ownerCards {
		if !card.DeckPath.Equal(deckPath) {
			continue
		}

		view := card.Clone()
		if state, ok := progress[card.ID]; ok {
			view.Scheduling = state
		} else {
			view.Scheduling = domain.NewSchedulingState(now)
		}
		merged = append(merged, view)
	}

	return merged, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
