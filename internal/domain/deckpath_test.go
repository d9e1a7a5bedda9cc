package domain

import (
	"encoding/json"
	"testing"
)

func TestParseDeckPath(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		input    string
		expected DeckPath
		wantErr  error
	}{
		{
			name:     "single segment",
			input:    "Law",
			expected: DeckPath{"Law"},
		},
		{
			name:     "nested segments",
			input:    "Law::Civil::Contracts",
			expected: DeckPath{"Law", "Civil", "Contracts"},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: ErrEmptyDeckPath,
		},
		{
			name:    "empty middle segment",
			input:   "Law::::Contracts",
			wantErr: ErrEmptyPathSegment,
		},
		{
			name:    "trailing separator",
			input:   "Law::",
			wantErr: ErrEmptyPathSegment,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDeckPath(tc.input)
			if tc.wantErr != nil {
				if err != tc.wantErr {
					t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
			if got.String() != tc.input {
				t.Errorf("Expected round-trip %q, got %q", tc.input, got.String())
			}
		})
	}
}

func TestDeckPathPrefixSemantics(t *testing.T) {
	t.Parallel() // Enable parallel execution

	base := DeckPath{"Law", "Civil"}
	child := DeckPath{"Law", "Civil", "Contracts"}
	sibling := DeckPath{"Law", "Criminal"}

	// Prefix matching is segment-wise, never substring: "Law::Civ" must not
	// be treated as an ancestor of "Law::Civil".
	substring := DeckPath{"Law", "Civ"}

	if !child.HasPrefix(base) {
		t.Error("Expected child to have base as prefix")
	}
	if !base.HasPrefix(base) {
		t.Error("Expected a path to be a prefix of itself")
	}
	if sibling.HasPrefix(base) {
		t.Error("Expected sibling not to have base as prefix")
	}
	if child.HasPrefix(substring) {
		t.Error("Expected substring segment not to count as prefix")
	}

	if !child.IsDescendantOf(base) {
		t.Error("Expected child to be descendant of base")
	}
	if base.IsDescendantOf(base) {
		t.Error("Expected a path not to be its own descendant")
	}
}

func TestDeckPathRebase(t *testing.T) {
	t.Parallel() // Enable parallel execution

	old := DeckPath{"Law", "Civil"}
	dst := DeckPath{"Archive"}

	moved := DeckPath{"Law", "Civil", "Contracts"}.Rebase(old, dst)
	expected := DeckPath{"Archive", "Contracts"}
	if !moved.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, moved)
	}

	// Rebasing the prefix itself yields exactly the destination.
	exact := DeckPath{"Law", "Civil"}.Rebase(old, dst)
	if !exact.Equal(dst) {
		t.Errorf("Expected %v, got %v", dst, exact)
	}
}

func TestDeckPathParentAndLeaf(t *testing.T) {
	t.Parallel() // Enable parallel execution

	p := DeckPath{"Law", "Civil", "Contracts"}

	if p.Leaf() != "Contracts" {
		t.Errorf("Expected leaf Contracts, got %s", p.Leaf())
	}
	if !p.Parent().Equal(DeckPath{"Law", "Civil"}) {
		t.Errorf("Expected parent Law::Civil, got %v", p.Parent())
	}
	if (DeckPath{"Law"}).Parent() != nil {
		t.Error("Expected top-level path to have nil parent")
	}
}

func TestDeckPathJSONRoundTrip(t *testing.T) {
	t.Parallel() // Enable parallel execution

	p := DeckPath{"Law", "Civil"}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `"Law::Civil"` {
		t.Errorf("Expected delimited string form, got %s", data)
	}

	var back DeckPath
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("Expected %v, got %v", p, back)
	}
}
