package hierarchy

import (
	"time"

	"github.com/decksmith/decksmith/internal/domain"
)

// Group describes one child entry of a folder view: either a leaf deck or
// a nested folder, with aggregate counts over its whole subtree.
type Group struct {
	Segment        string          `json:"segment"`
	FullPath       domain.DeckPath `json:"full_path"`
	IsFolder       bool            `json:"is_folder"`
	Total          int             `json:"total"`
	New            int             `json:"new"`
	Due            int             `json:"due"`
	LastReviewedAt *time.Time      `json:"last_reviewed_at,omitempty"`
}

// GroupChildren buckets every card under currentPrefix by the first path
// segment beyond it. A group is a folder when any card under its key has
// segments beyond that key. Counts aggregate the group's entire subtree;
// LastReviewedAt is the most recent review anywhere in it. An empty
// currentPrefix groups the collection roots.
func GroupChildren(cards []*domain.Card, currentPrefix domain.DeckPath, now time.Time) map[string]*Group {
	groups := make(map[string]*Group)

	for _, card := range cards {
		if !card.DeckPath.HasPrefix(currentPrefix) {
			continue
		}
		remainder := card.DeckPath[len(currentPrefix):]
		if len(remainder) == 0 {
			// The card sits exactly at the prefix; it belongs to the
			// prefix deck itself, not to any child group.
			continue
		}

		key := remainder[0]
		group, ok := groups[key]
		if !ok {
			group = &Group{
				Segment:  key,
				FullPath: currentPrefix.Child(key),
			}
			groups[key] = group
		}

		if len(remainder) > 1 {
			group.IsFolder = true
		}

		group.Total++
		if card.Scheduling.IsNew() {
			group.New++
		}
		if card.Scheduling.IsDue(now) {
			group.Due++
		}
		if reviewed := card.Scheduling.LastReviewedAt; reviewed != nil {
			if group.LastReviewedAt == nil || reviewed.After(*group.LastReviewedAt) {
				t := *reviewed
				group.LastReviewedAt = &t
			}
		}
	}

	return groups
}
