package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
)

// Persisted layout, relative to the store root:
//
//	users/{uid}/collection/cards/{cardId}                     = Card
//	users/{uid}/collection/settings/{deckKey}                 = DeckConfig
//	users/{uid}/collection/sharedOut/{deckKey}/{recipientKey} = SharedOutEntry
//	users/{uid}/collection/sharedProgress/{ownerUid}/{cardId} = SchedulingState
//	global_invites/{recipientKey}/{inviteId}                  = ShareInvite
//
// deckKey and recipientKey are store-safe encodings: the raw deck path and
// raw email stay legal as values but not as key components.
const (
	usersRoot         = "users"
	collectionSegment = "collection"
	cardsSegment      = "cards"
	settingsSegment   = "settings"
	sharedOutSegment  = "sharedOut"
	progressSegment   = "sharedProgress"
	globalInvitesRoot = "global_invites"
)

// keySafe reports whether a byte may appear verbatim in a store key.
// Everything else is escaped. The store forbids path and wildcard
// characters inside keys; escaping to this alphabet is strictly safe.
func keySafe(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	default:
		return false
	}
}

const hexDigits = "0123456789ABCDEF"

// EncodeKey turns an arbitrary string into a store-safe key component.
// Unsafe bytes become %XX hex escapes. The encoding is reversible and
// injective: distinct inputs never share a key.
func EncodeKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if keySafe(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0F])
	}
	return sb.String()
}

// DecodeKey reverses EncodeKey.
func DecodeKey(key string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(key))
	for i := 0; i < len(key); i++ {
		b := key[i]
		if b != '%' {
			sb.WriteByte(b)
			continue
		}
		if i+2 >= len(key) {
			return "", fmt.Errorf("%w: truncated escape in %q", ErrInvalidPath, key)
		}
		hi := strings.IndexByte(hexDigits, key[i+1])
		lo := strings.IndexByte(hexDigits, key[i+2])
		if hi < 0 || lo < 0 {
			return "", fmt.Errorf("%w: bad escape in %q", ErrInvalidPath, key)
		}
		sb.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return sb.String(), nil
}

// DeckKey encodes a deck path for use as a key component.
func DeckKey(p domain.DeckPath) string {
	return EncodeKey(p.String())
}

// DeckPathFromKey decodes a deck key back into a deck path.
func DeckPathFromKey(key string) (domain.DeckPath, error) {
	raw, err := DecodeKey(key)
	if err != nil {
		return nil, err
	}
	return domain.ParseDeckPath(raw)
}

// RecipientKey encodes a recipient email for use as a key component.
// Addresses are normalized to lower case first so one mailbox maps to one
// inbox key.
func RecipientKey(email string) string {
	return EncodeKey(strings.ToLower(strings.TrimSpace(email)))
}

// RecipientFromKey decodes a recipient key back into the email address.
func RecipientFromKey(key string) (string, error) {
	return DecodeKey(key)
}

// CollectionRoot returns the root of a user's collection.
func CollectionRoot(uid domain.UserID) string {
	return strings.Join([]string{usersRoot, string(uid), collectionSegment}, "/")
}

// CardsRoot returns the path holding all of a user's cards.
func CardsRoot(uid domain.UserID) string {
	return CollectionRoot(uid) + "/" + cardsSegment
}

// CardPath returns the path of a single card record.
func CardPath(uid domain.UserID, cardID uuid.UUID) string {
	return CardsRoot(uid) + "/" + cardID.String()
}

// SettingsPath returns the path of a deck's saved configuration.
func SettingsPath(uid domain.UserID, deckPath domain.DeckPath) string {
	return CollectionRoot(uid) + "/" + settingsSegment + "/" + DeckKey(deckPath)
}

// SharedOutRoot returns the root of the owner's outgoing share registry.
func SharedOutRoot(uid domain.UserID) string {
	return CollectionRoot(uid) + "/" + sharedOutSegment
}

// SharedOutPath returns the owner-side registry path of one share.
func SharedOutPath(uid domain.UserID, deckPath domain.DeckPath, recipientEmail string) string {
	return SharedOutRoot(uid) + "/" + DeckKey(deckPath) + "/" + RecipientKey(recipientEmail)
}

// ProgressRoot returns the root of a recipient's private progress for one
// owner's cards.
func ProgressRoot(recipient domain.UserID, owner domain.UserID) string {
	return CollectionRoot(recipient) + "/" + progressSegment + "/" + string(owner)
}

// ProgressPath returns the path of one shared-progress record.
func ProgressPath(recipient domain.UserID, owner domain.UserID, cardID uuid.UUID) string {
	return ProgressRoot(recipient, owner) + "/" + cardID.String()
}

// InboxRoot returns the global invite inbox of a recipient.
func InboxRoot(recipientEmail string) string {
	return globalInvitesRoot + "/" + RecipientKey(recipientEmail)
}

// InvitePath returns the inbox path of one invite.
func InvitePath(recipientEmail, inviteID string) string {
	return InboxRoot(recipientEmail) + "/" + inviteID
}
