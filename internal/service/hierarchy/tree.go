package hierarchy

import (
	"sort"

	"github.com/decksmith/decksmith/internal/domain"
)

// TreeNode is one node of the collection tree used by selection dialogs.
// IsDeck marks a node that itself holds cards, as opposed to a pure
// folder. Selectable marks valid move targets: pure folders outside the
// moved item's own subtree. The current item, its descendants, and every
// leaf deck are non-selectable, enforcing the cycle-prevention rule in
// the dialog as well as in Move itself.
type TreeNode struct {
	Name       string          `json:"name"`
	Path       domain.DeckPath `json:"path,omitempty"`
	IsDeck     bool            `json:"is_deck"`
	Selectable bool            `json:"selectable"`
	Children   []*TreeNode     `json:"children,omitempty"`
}

// BuildTree constructs the nested tree over every deck path present in
// cards, marking selectability relative to current (the item being
// moved). The returned root is an unnamed container whose children are
// the top-level entries, sorted by name at every level.
func BuildTree(cards []*domain.Card, current domain.DeckPath) *TreeNode {
	root := &TreeNode{}
	byName := map[*TreeNode]map[string]*TreeNode{root: {}}

	for _, card := range cards {
		node := root
		var walked domain.DeckPath
		for _, seg := range card.DeckPath {
			walked = walked.Child(seg)
			children := byName[node]
			child, ok := children[seg]
			if !ok {
				child = &TreeNode{Name: seg, Path: walked.Clone()}
				children[seg] = child
				byName[child] = map[string]*TreeNode{}
				node.Children = append(node.Children, child)
			}
			node = child
		}
		node.IsDeck = true
	}

	markSelectable(root, current, false)
	sortTree(root)
	return root
}

func markSelectable(node *TreeNode, current domain.DeckPath, insideCurrent bool) {
	if node.Path != nil {
		inCurrent := insideCurrent || node.Path.Equal(current)
		node.Selectable = !node.IsDeck && !inCurrent
		insideCurrent = inCurrent
	}
	for _, child := range node.Children {
		markSelectable(child, current, insideCurrent)
	}
}

func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}
