package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PathSeparator joins deck path segments in the canonical display form.
// It is reserved: no segment may contain it.
const PathSeparator = "::"

// Deck path validation errors. Each wraps ErrValidation so transport
// layers can classify the whole family without enumerating it.
var (
	// ErrEmptyDeckPath is returned when a deck path has no segments.
	ErrEmptyDeckPath = fmt.Errorf("%w: deck path cannot be empty", ErrValidation)

	// ErrEmptyPathSegment is returned when any segment of a deck path is empty.
	ErrEmptyPathSegment = fmt.Errorf("%w: deck path segment cannot be empty", ErrValidation)

	// ErrSeparatorInSegment is returned when a segment contains the reserved separator.
	ErrSeparatorInSegment = fmt.Errorf("%w: deck path segment cannot contain the separator", ErrValidation)
)

// DeckPath identifies a card's place in the nested folder hierarchy as an
// ordered list of segment names. Business logic operates on segments;
// the delimited string form exists only for display and storage.
type DeckPath []string

// NewDeckPath creates a DeckPath from the given segments.
// Returns an error if there are no segments or any segment is invalid.
func NewDeckPath(segments ...string) (DeckPath, error) {
	p := DeckPath(segments)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// ParseDeckPath parses the canonical delimited string form into a DeckPath.
func ParseDeckPath(s string) (DeckPath, error) {
	if s == "" {
		return nil, ErrEmptyDeckPath
	}
	p := DeckPath(strings.Split(s, PathSeparator))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the path is non-empty and every segment is a
// non-empty string free of the reserved separator.
func (p DeckPath) Validate() error {
	if len(p) == 0 {
		return ErrEmptyDeckPath
	}
	for _, seg := range p {
		if seg == "" {
			return ErrEmptyPathSegment
		}
		if strings.Contains(seg, PathSeparator) {
			return ErrSeparatorInSegment
		}
	}
	return nil
}

// String returns the canonical delimited display form.
func (p DeckPath) String() string {
	return strings.Join(p, PathSeparator)
}

// Equal reports whether two paths have identical segments.
// Equality is segment-wise, never a substring comparison.
func (p DeckPath) Equal(other DeckPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix matches the leading segments of p.
// A path is a prefix of itself.
func (p DeckPath) HasPrefix(prefix DeckPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether p lies strictly below ancestor.
func (p DeckPath) IsDescendantOf(ancestor DeckPath) bool {
	return len(p) > len(ancestor) && p.HasPrefix(ancestor)
}

// Parent returns the path with the last segment removed, or nil for a
// top-level path.
func (p DeckPath) Parent() DeckPath {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Leaf returns the last segment, or the empty string for an empty path.
func (p DeckPath) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with segment appended.
func (p DeckPath) Child(segment string) DeckPath {
	out := make(DeckPath, 0, len(p)+1)
	out = append(out, p...)
	out = append(out, segment)
	return out
}

// Rebase replaces the old prefix of p with newPrefix, preserving the
// remainder. The caller must ensure p has the old prefix.
func (p DeckPath) Rebase(oldPrefix, newPrefix DeckPath) DeckPath {
	out := make(DeckPath, 0, len(newPrefix)+len(p)-len(oldPrefix))
	out = append(out, newPrefix...)
	out = append(out, p[len(oldPrefix):]...)
	return out
}

// Clone returns an independent copy of the path.
func (p DeckPath) Clone() DeckPath {
	if p == nil {
		return nil
	}
	out := make(DeckPath, len(p))
	copy(out, p)
	return out
}

// MarshalJSON serializes the path as its delimited display string.
// Segments remain the in-memory representation; the string form exists
// only at the serialization boundary.
func (p DeckPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses the delimited display string back into segments.
func (p *DeckPath) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDeckPath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
