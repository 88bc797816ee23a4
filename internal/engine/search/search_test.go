package search

import (
	"testing"

	"github.com/inkwell/inkwell/internal/engine/text"
)

func chunksOf(s string) []text.TextSlice {
	return []text.TextSlice{text.NewTextSlice(text.FromString(s))}
}

func TestSearchFindsMatchOffset(t *testing.T) {
	got := Search(chunksOf("abcdefg"), "cde")
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestSearchOverSurrogatePair(t *testing.T) {
	// "ab\U0001F601cd" encodes as ab + surrogate pair + cd in UTF-16; the
	// match offset must be reported in code units, so 'c' lands at 4, not 3.
	got := Search(chunksOf("ab\U0001F601cd"), "\U0001F601")
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	got = Search(chunksOf("ab\U0001F601cd"), "cd")
	if got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestSearchInvalidPattern(t *testing.T) {
	got := Search(chunksOf("abc"), "[")
	if got != InvalidPattern {
		t.Fatalf("got %d, want InvalidPattern", got)
	}
}

func TestSearchNoResults(t *testing.T) {
	got := Search(chunksOf("abc"), "zzz")
	if got != NoResults {
		t.Fatalf("got %d, want NoResults", got)
	}
}

func TestSearchAcrossChunkBoundary(t *testing.T) {
	chunks := []text.TextSlice{
		text.NewTextSlice(text.FromString("ab")),
		text.NewTextSlice(text.FromString("cd")),
	}
	got := Search(chunks, "bc")
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}
