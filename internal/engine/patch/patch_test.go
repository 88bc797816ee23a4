package patch

import (
	"bytes"
	"testing"

	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

func TestSpliceSingleInsertion(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 5), point.New(0, 0), point.New(0, 3), nil, text.FromString("xyz"), 0)

	if p.GetChangeCount() != 1 {
		t.Fatalf("GetChangeCount = %d, want 1", p.GetChangeCount())
	}
	c := p.GetChanges()[0]
	if c.NewStart != point.New(0, 5) || c.NewEnd != point.New(0, 8) {
		t.Fatalf("change new range = [%s,%s), want [(0,5),(0,8))", c.NewStart, c.NewEnd)
	}
	if c.OldStart != point.New(0, 5) || c.OldEnd != point.New(0, 5) {
		t.Fatalf("change old range = [%s,%s), want [(0,5),(0,5))", c.OldStart, c.OldEnd)
	}
}

func TestSpliceDeletionAfterPriorInsertion(t *testing.T) {
	p := New()
	// Insert "xyz" at (0,5): old [5,5), new [5,8).
	p.Splice(point.New(0, 5), point.New(0, 0), point.New(0, 3), nil, text.FromString("xyz"), 0)
	// Now delete 2 units starting at new position (0,9), i.e. just after
	// the inserted region, a pure passthrough deletion in old space.
	p.Splice(point.New(0, 9), point.New(0, 2), point.New(0, 0), nil, text.Empty, 2)

	if p.GetChangeCount() != 2 {
		t.Fatalf("GetChangeCount = %d, want 2", p.GetChangeCount())
	}
	second := p.GetChanges()[1]
	if second.OldStart != point.New(0, 6) || second.OldEnd != point.New(0, 8) {
		t.Fatalf("second change old range = [%s,%s), want [(0,6),(0,8))", second.OldStart, second.OldEnd)
	}
	if second.PrecedingNewTextSize != 3 {
		t.Fatalf("PrecedingNewTextSize = %d, want 3", second.PrecedingNewTextSize)
	}
}

func TestSpliceMergesOverlappingInsertion(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 0), point.New(0, 0), point.New(0, 5), nil, text.FromString("hello"), 0)
	// Replace the middle 3 units of the inserted text ("ell") with "ipp".
	p.Splice(point.New(0, 1), point.New(0, 3), point.New(0, 3), nil, text.FromString("ipp"), 3)

	if p.GetChangeCount() != 1 {
		t.Fatalf("GetChangeCount = %d, want 1 (merged)", p.GetChangeCount())
	}
	c := p.GetChanges()[0]
	if c.NewText.String() != "hippo" {
		t.Fatalf("merged NewText = %q, want %q", c.NewText.String(), "hippo")
	}
	if c.OldTextSize != 0 {
		t.Fatalf("merged OldTextSize = %d, want 0 (no predecessor text touched)", c.OldTextSize)
	}
}

func TestFindAndChangeForNewPosition(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 5), point.New(0, 0), point.New(0, 3), nil, text.FromString("xyz"), 0)

	if c := p.FindChangeForNewPosition(point.New(0, 4)); c != nil {
		t.Fatalf("expected no preceding change before the only change, got %v", c)
	}
	if c := p.FindChangeForNewPosition(point.New(0, 6)); c == nil {
		t.Fatalf("expected the change to be found as preceding")
	}

	if c := p.ChangeForNewPosition(point.New(0, 6)); c == nil {
		t.Fatalf("expected containment match inside the inserted region")
	}
	if c := p.ChangeForNewPosition(point.New(0, 4)); c != nil {
		t.Fatalf("expected no change to contain a position before it, got %v", c)
	}
}

func TestFindChangeEndingAfterNewPosition(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 5), point.New(0, 0), point.New(0, 3), nil, text.FromString("xyz"), 0)

	if c := p.FindChangeEndingAfterNewPosition(point.New(0, 7)); c == nil {
		t.Fatalf("expected a change ending after (0,7)")
	}
	if c := p.FindChangeEndingAfterNewPosition(point.New(0, 8)); c != nil {
		t.Fatalf("expected no change ending after its own end, got %v", c)
	}
}

func TestCombineAlternatingDirection(t *testing.T) {
	lower := New()
	lower.Splice(point.New(0, 0), point.New(0, 0), point.New(0, 3), nil, text.FromString("abc"), 0)

	upper := New()
	upper.Splice(point.New(0, 1), point.New(0, 1), point.New(0, 1), nil, text.FromString("X"), 1)

	lower.Combine(upper, true)
	if lower.GetChangeCount() != 1 {
		t.Fatalf("GetChangeCount after combine = %d, want 1", lower.GetChangeCount())
	}
	if got := lower.GetChanges()[0].NewText.String(); got != "aXc" {
		t.Fatalf("combined NewText = %q, want %q", got, "aXc")
	}
}

// TestCombineAlternatingDirectionFalse exercises the leftToRight=false
// branch in isolation (a collapse uses it on its second fold, after a first
// fold with leftToRight=true): other really was built on top of p, replayed
// back to front.
func TestCombineAlternatingDirectionFalse(t *testing.T) {
	lower := New()
	lower.Splice(point.New(0, 0), point.New(0, 0), point.New(0, 3), nil, text.FromString("abc"), 0)

	upper := New()
	upper.Splice(point.New(0, 1), point.New(0, 1), point.New(0, 1), nil, text.FromString("X"), 1)

	lower.Combine(upper, false)
	if lower.GetChangeCount() != 1 {
		t.Fatalf("GetChangeCount after combine = %d, want 1", lower.GetChangeCount())
	}
	if got := lower.GetChanges()[0].NewText.String(); got != "aXc" {
		t.Fatalf("combined NewText = %q, want %q", got, "aXc")
	}
}

// TestCombineMultiLayerCollapseAlternatingFold reconstructs the three-layer
// collapse a buffer performs when two snapshots release back to back: the
// accumulator (bottom) must remain the lower operand on every fold, even
// as leftToRight alternates, or the composed text comes out wrong.
//
// Layer chain: base "" --P0--> "A" --P1--> "AB" --P2--> "ABC", where P0 is
// held by the bottommost layer, P1 by the middle layer, and P2 by the top.
// Collapsing folds P1 into the accumulator first (leftToRight=true, since
// P1 really was applied on top of P0), then P2 (leftToRight=false).
func TestCombineMultiLayerCollapseAlternatingFold(t *testing.T) {
	p0 := New()
	p0.Splice(point.New(0, 0), point.New(0, 0), point.New(0, 1), nil, text.FromString("A"), 0)

	p1 := New()
	p1.Splice(point.New(0, 0), point.New(0, 1), point.New(0, 2), nil, text.FromString("AB"), 1)

	p2 := New()
	p2.Splice(point.New(0, 0), point.New(0, 2), point.New(0, 3), nil, text.FromString("ABC"), 2)

	bottom := p0
	bottom.Combine(p1, true)
	bottom.Combine(p2, false)

	if got := bottom.GetChanges()[0].NewText.String(); got != "ABC" {
		t.Fatalf("collapsed NewText = %q, want %q", got, "ABC")
	}
}

func TestClearAndCount(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 0), point.New(0, 0), point.New(0, 1), nil, text.FromString("a"), 0)
	if p.GetChangeCount() != 1 {
		t.Fatalf("expected one change before Clear")
	}
	p.Clear()
	if p.GetChangeCount() != 0 {
		t.Fatalf("expected zero changes after Clear")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := New()
	p.Splice(point.New(0, 2), point.New(0, 1), point.New(0, 4), nil, text.FromString("abcd"), 1)

	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}

	got := New()
	if err := got.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}
	if got.GetChangeCount() != p.GetChangeCount() {
		t.Fatalf("round-tripped change count = %d, want %d", got.GetChangeCount(), p.GetChangeCount())
	}
	if got.GetChanges()[0].NewText.String() != "abcd" {
		t.Fatalf("round-tripped NewText = %q, want %q", got.GetChanges()[0].NewText.String(), "abcd")
	}
}
