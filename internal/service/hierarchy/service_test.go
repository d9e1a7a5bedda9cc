package hierarchy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/service/hierarchy"
)

// fakeCardRepo records every batch it receives so tests can assert on
// exactly what a cascade wrote or removed.
type fakeCardRepo struct {
	cards []*domain.Card

	saved   [][]*domain.Card
	deleted [][]uuid.UUID

	listErr   error
	saveErr   error
	deleteErr error

	listCalls int
}

func (f *fakeCardRepo) List(_ context.Context, _ domain.UserID) ([]*domain.Card, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Card, len(f.cards))
	for i, c := range f.cards {
		out[i] = c.Clone()
	}
	return out, nil
}

func (f *fakeCardRepo) BatchSave(_ context.Context, _ domain.UserID, cards []*domain.Card) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, cards)
	return nil
}

func (f *fakeCardRepo) BatchDelete(_ context.Context, _ domain.UserID, ids []uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func mustPath(t *testing.T, s string) domain.DeckPath {
	t.Helper()
	p, err := domain.ParseDeckPath(s)
	require.NoError(t, err)
	return p
}

func cardAt(t *testing.T, path string) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(mustPath(t, path), domain.CardContent{
		Format: domain.FormatBasic,
		Front:  "front of " + path,
		Back:   "back",
	}, domain.CategoryContent)
	require.NoError(t, err)
	return card
}

func TestServiceMove(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	const uid = domain.UserID("user-1")

	t.Run("relocates the exact subtree and nothing else", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		civil := cardAt(t, "Law::Civil")
		contracts := cardAt(t, "Law::Civil::Contracts")
		criminal := cardAt(t, "Law::Criminal")
		repo := &fakeCardRepo{cards: []*domain.Card{civil, contracts, criminal}}
		svc := hierarchy.NewService(repo, nil)

		moved, err := svc.Move(ctx, uid, mustPath(t, "Law::Civil"), mustPath(t, "Archive::Civil"))
		require.NoError(t, err)
		assert.Equal(t, 2, moved)

		require.Len(t, repo.saved, 1, "cascade must be one batch")
		batch := repo.saved[0]
		require.Len(t, batch, 2)

		paths := make(map[string]string)
		for _, c := range batch {
			if c.ID == civil.ID {
				paths["civil"] = c.DeckPath.String()
			}
			if c.ID == contracts.ID {
				paths["contracts"] = c.DeckPath.String()
			}
			assert.NotEqual(t, criminal.ID, c.ID, "card outside the subtree must not be written")
		}
		assert.Equal(t, "Archive::Civil", paths["civil"])
		assert.Equal(t, "Archive::Civil::Contracts", paths["contracts"])
	})

	t.Run("preserves every non-path field", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		card := cardAt(t, "Law::Civil")
		repo := &fakeCardRepo{cards: []*domain.Card{card}}
		svc := hierarchy.NewService(repo, nil)

		_, err := svc.Move(ctx, uid, mustPath(t, "Law::Civil"), mustPath(t, "Archive"))
		require.NoError(t, err)

		require.Len(t, repo.saved, 1)
		got := repo.saved[0][0]
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, card.Content, got.Content)
		assert.Equal(t, card.Category, got.Category)
		assert.Equal(t, card.Scheduling, got.Scheduling)
		assert.True(t, card.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("no match is a no-op", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{cards: []*domain.Card{cardAt(t, "Law::Criminal")}}
		svc := hierarchy.NewService(repo, nil)

		moved, err := svc.Move(ctx, uid, mustPath(t, "Law::Civil"), mustPath(t, "Archive"))
		require.NoError(t, err)
		assert.Zero(t, moved)
		assert.Empty(t, repo.saved)
	})

	t.Run("rejects a move onto itself before any remote call", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{}
		svc := hierarchy.NewService(repo, nil)

		_, err := svc.Move(ctx, uid, mustPath(t, "Law"), mustPath(t, "Law"))
		assert.ErrorIs(t, err, hierarchy.ErrSamePath)
		assert.Zero(t, repo.listCalls)
	})

	t.Run("rejects a move into its own subtree before any remote call", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{}
		svc := hierarchy.NewService(repo, nil)

		_, err := svc.Move(ctx, uid, mustPath(t, "Law"), mustPath(t, "Law::Civil"))
		assert.ErrorIs(t, err, hierarchy.ErrCyclicMove)
		assert.Zero(t, repo.listCalls)
	})

	t.Run("propagates batch failure", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{
			cards:   []*domain.Card{cardAt(t, "Law::Civil")},
			saveErr: errors.New("connection reset"),
		}
		svc := hierarchy.NewService(repo, nil)

		_, err := svc.Move(ctx, uid, mustPath(t, "Law::Civil"), mustPath(t, "Archive"))
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestServiceRename(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	const uid = domain.UserID("user-1")

	t.Run("keeps the deck in place under its new name", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		card := cardAt(t, "Law::Civil::Contracts")
		repo := &fakeCardRepo{cards: []*domain.Card{card}}
		svc := hierarchy.NewService(repo, nil)

		renamed, err := svc.Rename(ctx, uid, mustPath(t, "Law::Civil"), "Private")
		require.NoError(t, err)
		assert.Equal(t, 1, renamed)

		require.Len(t, repo.saved, 1)
		got := repo.saved[0][0]
		assert.Equal(t, "Law::Private::Contracts", got.DeckPath.String())
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, card.Content, got.Content)
	})

	t.Run("renames a root deck", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{cards: []*domain.Card{cardAt(t, "Law")}}
		svc := hierarchy.NewService(repo, nil)

		renamed, err := svc.Rename(ctx, uid, mustPath(t, "Law"), "Jurisprudence")
		require.NoError(t, err)
		assert.Equal(t, 1, renamed)
		assert.Equal(t, "Jurisprudence", repo.saved[0][0].DeckPath.String())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		svc := hierarchy.NewService(&fakeCardRepo{}, nil)

		_, err := svc.Rename(ctx, uid, mustPath(t, "Law::Civil"), "")
		assert.ErrorIs(t, err, hierarchy.ErrEmptyName)
	})

	t.Run("rejects a name containing the separator", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		svc := hierarchy.NewService(&fakeCardRepo{}, nil)

		_, err := svc.Rename(ctx, uid, mustPath(t, "Law::Civil"), "A::B")
		assert.ErrorIs(t, err, domain.ErrSeparatorInSegment)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	const uid = domain.UserID("user-1")

	t.Run("removes the exact subtree in one batch", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		civil := cardAt(t, "Law::Civil")
		contracts := cardAt(t, "Law::Civil::Contracts")
		criminal := cardAt(t, "Law::Criminal")
		repo := &fakeCardRepo{cards: []*domain.Card{civil, contracts, criminal}}
		svc := hierarchy.NewService(repo, nil)

		removed, err := svc.Delete(ctx, uid, mustPath(t, "Law::Civil"))
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		require.Len(t, repo.deleted, 1)
		assert.ElementsMatch(t, []uuid.UUID{civil.ID, contracts.ID}, repo.deleted[0])
	})

	t.Run("no match removes nothing", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		repo := &fakeCardRepo{cards: []*domain.Card{cardAt(t, "Law")}}
		svc := hierarchy.NewService(repo, nil)

		removed, err := svc.Delete(ctx, uid, mustPath(t, "History"))
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Empty(t, repo.deleted)
	})

	t.Run("does not cascade into sibling prefixes", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		// "Lawful" shares a string prefix with "Law" but is a distinct root.
		law := cardAt(t, "Law")
		lawful := cardAt(t, "Lawful")
		repo := &fakeCardRepo{cards: []*domain.Card{law, lawful}}
		svc := hierarchy.NewService(repo, nil)

		removed, err := svc.Delete(ctx, uid, mustPath(t, "Law"))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, []uuid.UUID{law.ID}, repo.deleted[0])
	})
}

func TestServiceChildren(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	const uid = domain.UserID("user-1")
	now := time.Now()

	repo := &fakeCardRepo{cards: []*domain.Card{
		cardAt(t, "Law::Civil::Contracts"),
		cardAt(t, "Law::Civil::Torts"),
		cardAt(t, "Law::Criminal"),
		cardAt(t, "History"),
	}}
	svc := hierarchy.NewService(repo, nil)

	t.Run("groups by the first segment beyond the prefix", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		groups, err := svc.Children(ctx, uid, mustPath(t, "Law"), now)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		civil := groups["Civil"]
		require.NotNil(t, civil)
		assert.True(t, civil.IsFolder)
		assert.Equal(t, 2, civil.Total)
		assert.Equal(t, 2, civil.New)
		assert.Equal(t, 2, civil.Due)
		assert.Equal(t, "Law::Civil", civil.FullPath.String())

		criminal := groups["Criminal"]
		require.NotNil(t, criminal)
		assert.False(t, criminal.IsFolder)
		assert.Equal(t, 1, criminal.Total)
	})

	t.Run("empty prefix groups the roots", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		groups, err := svc.Children(ctx, uid, nil, now)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.True(t, groups["Law"].IsFolder)
		assert.False(t, groups["History"].IsFolder)
	})
}

func TestServiceTree(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	const uid = domain.UserID("user-1")

	repo := &fakeCardRepo{cards: []*domain.Card{
		cardAt(t, "Law::Civil::Contracts"),
		cardAt(t, "Law::Criminal"),
		cardAt(t, "History::Rome"),
	}}
	svc := hierarchy.NewService(repo, nil)

	tree, err := svc.Tree(ctx, uid, mustPath(t, "Law::Civil"))
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	assert.Equal(t, "History", tree.Children[0].Name)
	assert.Equal(t, "Law", tree.Children[1].Name)

	history := tree.Children[0]
	assert.True(t, history.Selectable, "pure folder outside the moved subtree is a valid target")
	require.Len(t, history.Children, 1)
	assert.False(t, history.Children[0].Selectable, "leaf decks are never targets")

	law := tree.Children[1]
	assert.True(t, law.Selectable)
	for _, child := range law.Children {
		switch child.Name {
		case "Civil":
			assert.False(t, child.Selectable, "the moved item itself is not a target")
			for _, grandchild := range child.Children {
				assert.False(t, grandchild.Selectable, "descendants of the moved item are not targets")
			}
		case "Criminal":
			assert.False(t, child.Selectable, "decks holding cards are not targets")
		}
	}
}
