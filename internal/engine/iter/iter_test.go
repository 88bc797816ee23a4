package iter

import (
	"github.com/inkwell/inkwell/internal/engine/text"
	"testing"
)

func sliceOf(s string) text.TextSlice {
	return text.NewTextSlice(text.FromString(s))
}

func drain(it *Iterator) []rune {
	var out []rune
	for !it.End() {
		out = append(out, it.Value())
		it.Next()
	}
	return out
}

func TestIteratesAcrossChunkBoundary(t *testing.T) {
	chunks := []text.TextSlice{sliceOf("ab"), sliceOf("cd")}
	it := New(chunks)
	got := drain(it)
	want := "abcd"
	if string(got) != want {
		t.Fatalf("got %q, want %q", string(got), want)
	}
}

func TestSurrogatePairSplitAcrossChunks(t *testing.T) {
	full := text.FromString("a\U0001F600b")
	units := full.Units()
	chunks := []text.TextSlice{
		text.NewTextSlice(text.FromUnits(append([]uint16{}, units[:2]...))),
		text.NewTextSlice(text.FromUnits(append([]uint16{}, units[2:]...))),
	}
	it := New(chunks)
	got := drain(it)
	want := "a\U0001F600b"
	if string(got) != want {
		t.Fatalf("got %q, want %q", string(got), want)
	}
}

func TestPrevRetreatsAcrossSurrogatePair(t *testing.T) {
	full := text.FromString("a\U0001F600b")
	chunks := []text.TextSlice{text.NewTextSlice(full)}
	it := New(chunks)
	it.Next()
	it.Next()
	if it.Value() != 'b' {
		t.Fatalf("expected 'b' at index 2, got %q", it.Value())
	}
	it.Prev()
	if it.Value() != 0x1F600 {
		t.Fatalf("expected surrogate pair scalar, got %U", it.Value())
	}
	it.Prev()
	if it.Value() != 'a' {
		t.Fatalf("expected 'a', got %q", it.Value())
	}
}

func TestEmptyChunksYieldsImmediateEnd(t *testing.T) {
	it := New(nil)
	if !it.End() {
		t.Fatalf("expected End() on empty chunk list")
	}
}

func TestSkipsEmptyChunks(t *testing.T) {
	empty := text.NewTextSlice(text.Empty)
	chunks := []text.TextSlice{empty, sliceOf("x"), empty}
	it := New(chunks)
	got := drain(it)
	if string(got) != "x" {
		t.Fatalf("got %q, want %q", string(got), "x")
	}
}
