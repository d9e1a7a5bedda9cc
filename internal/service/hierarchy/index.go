package hierarchy

import (
	"github.com/decksmith/decksmith/internal/domain"
)

// pathIndex is a trie keyed by deck path segment. Cascades and grouping
// walk the subtree they touch instead of scanning the whole collection.
type pathIndex struct {
	root *indexNode
}

type indexNode struct {
	children map[string]*indexNode
	cards    []*domain.Card
}

func newIndexNode() *indexNode {
	return &indexNode{children: make(map[string]*indexNode)}
}

// buildIndex indexes every card by its deck path segments.
func buildIndex(cards []*domain.Card) *pathIndex {
	idx := &pathIndex{root: newIndexNode()}
	for _, card := range cards {
		idx.insert(card)
	}
	return idx
}

func (idx *pathIndex) insert(card *domain.Card) {
	node := idx.root
	for _, seg := range card.DeckPath {
		child, ok := node.children[seg]
		if !ok {
			child = newIndexNode()
			node.children[seg] = child
		}
		node = child
	}
	node.cards = append(node.cards, card)
}

// lookup returns the node at prefix, or nil when no card lives at or below it.
func (idx *pathIndex) lookup(prefix domain.DeckPath) *indexNode {
	node := idx.root
	for _, seg := range prefix {
		child, ok := node.children[seg]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// subtree returns every card whose path equals prefix or descends from it.
func (idx *pathIndex) subtree(prefix domain.DeckPath) []*domain.Card {
	node := idx.lookup(prefix)
	if node == nil {
		return nil
	}
	var out []*domain.Card
	node.collect(&out)
	return out
}

func (n *indexNode) collect(out *[]*domain.Card) {
	*out = append(*out, n.cards...)
	for _, child := range n.children {
		child.collect(out)
	}
}
