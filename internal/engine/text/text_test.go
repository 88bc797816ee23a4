package text

import (
	"testing"

	"github.com/inkwell/inkwell/internal/engine/point"
)

func TestExtentAndSize(t *testing.T) {
	tx := FromString("ab\ncde\nf")
	if tx.Size() != 8 {
		t.Fatalf("Size = %d, want 8", tx.Size())
	}
	if got := tx.Extent(); got != point.New(2, 1) {
		t.Fatalf("Extent = %s, want (2,1)", got)
	}
}

func TestClipPositionClampsToLineEnd(t *testing.T) {
	tx := FromString("abc\nde")
	cr := tx.ClipPosition(point.New(0, 99))
	if cr.Position != point.New(0, 3) {
		t.Fatalf("clip row0 col99 = %s, want (0,3)", cr.Position)
	}
	if cr.Offset != 3 {
		t.Fatalf("offset = %d, want 3", cr.Offset)
	}

	cr2 := tx.ClipPosition(point.New(5, 0))
	if cr2.Position != point.New(1, 2) {
		t.Fatalf("clip beyond last row = %s, want (1,2)", cr2.Position)
	}
}

func TestClipPositionSnapsSurrogatePair(t *testing.T) {
	// U+1F600 (grinning face) encodes as a high/low surrogate pair; the
	// line is "a\U0001F600b", units: ['a', high, low, 'b'].
	tx := FromString("a\U0001F600b")
	cr := tx.ClipPosition(point.New(0, 2))
	if cr.Position.Column != 1 {
		t.Fatalf("clip inside surrogate pair = col %d, want 1 (snap before pair)", cr.Position.Column)
	}
}

func TestClipPositionRawDoesNotSnapToGraphemeBoundary(t *testing.T) {
	tx := FromString("a\U0001F600b")
	cr := tx.ClipPositionRaw(point.New(0, 2))
	if cr.Position.Column != 2 {
		t.Fatalf("ClipPositionRaw inside surrogate pair = col %d, want 2 (no snap)", cr.Position.Column)
	}
}

func TestSplice(t *testing.T) {
	tx := FromString("hello world")
	result := tx.Splice(point.New(0, 6), point.New(0, 5), FromString("there"))
	if result.String() != "hello there" {
		t.Fatalf("Splice = %q, want %q", result.String(), "hello there")
	}
}

func TestAppend(t *testing.T) {
	a := FromString("foo\n")
	b := FromString("bar")
	got := a.Append(b)
	if got.String() != "foo\nbar" {
		t.Fatalf("Append = %q, want %q", got.String(), "foo\nbar")
	}
	if got.Extent() != point.New(1, 3) {
		t.Fatalf("Extent after append = %s, want (1,3)", got.Extent())
	}
}

func TestPositionForOffset(t *testing.T) {
	tx := FromString("ab\ncde")
	if got := tx.PositionForOffset(4); got != point.New(1, 1) {
		t.Fatalf("PositionForOffset(4) = %s, want (1,1)", got)
	}
	if got := tx.PositionForOffset(1000); got != tx.Extent() {
		t.Fatalf("PositionForOffset beyond end = %s, want extent %s", got, tx.Extent())
	}
}

func TestDigestStableAcrossCalls(t *testing.T) {
	tx := FromString("stable content")
	if tx.Digest(0) != tx.Digest(0) {
		t.Fatalf("Digest not stable across calls")
	}
	other := FromString("different content")
	if tx.Digest(0) == other.Digest(0) {
		t.Fatalf("Digest collided for different content")
	}
}

func TestTextSlicePrefixSuffix(t *testing.T) {
	tx := FromString("ab\ncd\nef")
	s := NewTextSlice(tx)
	prefix := s.Prefix(point.New(1, 2))
	if prefix.ToText().String() != "ab\ncd" {
		t.Fatalf("Prefix = %q, want %q", prefix.ToText().String(), "ab\ncd")
	}
	suffix := s.Suffix(point.New(1, 2))
	if suffix.ToText().String() != "cd\nef" {
		t.Fatalf("Suffix = %q, want %q", suffix.ToText().String(), "cd\nef")
	}
}
