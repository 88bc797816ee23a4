// Package patch implements the ordered, coordinate-keyed edit list that
// every Layer in internal/engine/buffer consults when translating a
// position through its own pending edits. A Patch is a sorted, non-
// overlapping list of Changes keyed on both old- and new-coordinate
// intervals; Splice merges a new edit into that list, and Combine composes
// two patches end to end (used when collapsing layers on snapshot release).
package patch

import (
	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// Change is one contiguous edit: a replacement of [OldStart, OldEnd) in the
// predecessor's coordinate space with NewText occupying [NewStart, NewEnd)
// in the patch's own coordinate space. PrecedingOldTextSize and
// PrecedingNewTextSize are running totals over every earlier change in the
// same Patch, letting clip_position recover an absolute offset without
// re-walking the whole list.
type Change struct {
	OldStart, OldEnd point.Point
	NewStart, NewEnd point.Point
	OldText          *text.Text
	NewText          text.Text

	PrecedingOldTextSize uint32
	PrecedingNewTextSize uint32
	OldTextSize          uint32
}

// Patch is a sorted, non-overlapping list of Changes ordered by NewStart.
type Patch struct {
	changes []*Change
}

// New returns an empty Patch.
func New() *Patch {
	return &Patch{}
}

// Clone returns a deep-enough copy: a new Patch with its own Change slice,
// each Change copied by value (Text values are themselves immutable, so
// sharing their backing arrays across the clone is safe).
func (p *Patch) Clone() *Patch {
	changes := make([]*Change, len(p.changes))
	for i, c := range p.changes {
		cp := *c
		changes[i] = &cp
	}
	return &Patch{changes: changes}
}

// GetChanges returns the patch's changes in NewStart order. Callers must
// not mutate the returned Change values.
func (p *Patch) GetChanges() []*Change {
	return p.changes
}

// GetChangeCount returns the number of changes in the patch.
func (p *Patch) GetChangeCount() int {
	return len(p.changes)
}

// Clear discards every change in the patch.
func (p *Patch) Clear() {
	p.changes = nil
}

// mapToOld rebases a new-coordinate position that falls outside every
// change onto the predecessor's old-coordinate space, via the nearest
// preceding change (or the identity mapping if there is none).
func mapToOld(pos point.Point, precedingChanges []*Change) point.Point {
	if len(precedingChanges) == 0 {
		return pos
	}
	prev := precedingChanges[len(precedingChanges)-1]
	return prev.OldEnd.Traverse(pos.Traversal(prev.NewEnd))
}

// Splice merges a new edit into the patch. newStart and deletedExtent
// describe the deleted span in the patch's current new-coordinate space;
// insertedExtent is newText's own extent; deletedTextSize is the absolute
// UTF-16 code-unit width of the deleted span, as measured by the caller
// against the fully-resolved virtual text (it may include both predecessor
// text and text previously inserted by an overlapping change).
func (p *Patch) Splice(newStart, deletedExtent, insertedExtent point.Point, oldText *text.Text, newText text.Text, deletedTextSize uint32) {
	newEnd := newStart.Traverse(deletedExtent)

	var before, after, overlapping []*Change
	for _, c := range p.changes {
		switch {
		case c.NewEnd.LessEqual(newStart):
			before = append(before, c)
		case newEnd.LessEqual(c.NewStart):
			after = append(after, c)
		default:
			overlapping = append(overlapping, c)
		}
	}

	var oldStart point.Point
	var leftoverPrefix text.Text
	if len(overlapping) > 0 {
		first := overlapping[0]
		if first.NewStart.Less(newStart) {
			oldStart = first.OldStart
			leftoverPrefix = text.NewTextSlice(first.NewText).Prefix(newStart.Traversal(first.NewStart)).ToText()
		} else {
			oldStart = first.OldStart
		}
	} else {
		oldStart = mapToOld(newStart, before)
	}

	var oldEnd point.Point
	var leftoverSuffix text.Text
	if len(overlapping) > 0 {
		last := overlapping[len(overlapping)-1]
		if newEnd.Less(last.NewEnd) {
			oldEnd = last.OldEnd
			leftoverSuffix = text.NewTextSlice(last.NewText).Suffix(last.NewEnd.Traversal(newEnd)).ToText()
		} else {
			oldEnd = last.OldEnd.Traverse(newEnd.Traversal(last.NewEnd))
		}
	} else {
		oldEnd = mapToOld(newEnd, before)
	}

	var consumedOldTextSize, totalOverlapNewTextSize uint32
	for _, c := range overlapping {
		consumedOldTextSize += c.OldTextSize
		totalOverlapNewTextSize += c.NewText.Size()
	}
	consumedNewTextSize := totalOverlapNewTextSize - leftoverPrefix.Size() - leftoverSuffix.Size()

	resultOldTextSize := consumedOldTextSize + (deletedTextSize - consumedNewTextSize)

	resultNewText := leftoverPrefix.Append(newText).Append(leftoverSuffix)
	resultNewStart := newStart
	if !leftoverPrefix.IsEmpty() {
		resultNewStart = overlapping[0].NewStart
	}
	resultNewEnd := resultNewStart.Traverse(resultNewText.Extent())
	_ = insertedExtent // informational; resultNewText.Extent() is authoritative once leftovers are folded in

	merged := &Change{
		OldStart:    oldStart,
		OldEnd:      oldEnd,
		NewStart:    resultNewStart,
		NewEnd:      resultNewEnd,
		OldText:     oldText,
		NewText:     resultNewText,
		OldTextSize: resultOldTextSize,
	}

	shiftedAfter := make([]*Change, len(after))
	for i, c := range after {
		cp := *c
		cp.NewStart = merged.NewEnd.Traverse(c.NewStart.Traversal(newEnd))
		cp.NewEnd = merged.NewEnd.Traverse(c.NewEnd.Traversal(newEnd))
		shiftedAfter[i] = &cp
	}

	result := make([]*Change, 0, len(before)+1+len(shiftedAfter))
	result = append(result, before...)
	result = append(result, merged)
	result = append(result, shiftedAfter...)
	p.changes = result
	p.rebuildPrecedingSizes()
}

// rebuildPrecedingSizes recomputes PrecedingOldTextSize/PrecedingNewTextSize
// as running totals over the sorted change list. This is the O(n) cost this
// implementation pays per Splice in exchange for not maintaining a
// self-balancing tree of subtree sums.
func (p *Patch) rebuildPrecedingSizes() {
	var runningOld, runningNew uint32
	for _, c := range p.changes {
		c.PrecedingOldTextSize = runningOld
		c.PrecedingNewTextSize = runningNew
		runningOld += c.OldTextSize
		runningNew += c.NewText.Size()
	}
}

// FindChangeForNewPosition returns the change whose new-range contains p,
// or failing that the change that immediately precedes p. It returns nil
// if p precedes every change.
func (p *Patch) FindChangeForNewPosition(pos point.Point) *Change {
	var result *Change
	for _, c := range p.changes {
		if c.NewStart.LessEqual(pos) {
			result = c
			continue
		}
		break
	}
	return result
}

// ChangeForNewPosition is the authoritative variant used at the topmost
// layer: it prefers a change that strictly contains pos (or, for a
// zero-width deletion, exactly matches pos), falling back to the nearest
// preceding change when no change contains pos.
func (p *Patch) ChangeForNewPosition(pos point.Point) *Change {
	for _, c := range p.changes {
		if c.NewStart.LessEqual(pos) && pos.Less(c.NewEnd) {
			return c
		}
		if c.NewStart.Equal(c.NewEnd) && pos.Equal(c.NewStart) {
			return c
		}
	}
	return p.FindChangeForNewPosition(pos)
}

// FindChangeEndingAfterNewPosition returns the first change (in NewStart
// order) whose NewEnd is strictly greater than pos, or nil if none.
func (p *Patch) FindChangeEndingAfterNewPosition(pos point.Point) *Change {
	for _, c := range p.changes {
		if pos.Less(c.NewEnd) {
			return c
		}
	}
	return nil
}

// Combine composes other into p: other is always interpreted as having
// been applied on top of p (p is "lower", other is "upper"), and the
// result is stored back into p, keyed in p's old-coordinate space and
// other's new-coordinate space. p never swaps roles with other; a fold
// that needs p to end up below more than one prior layer must call
// Combine repeatedly with p as the accumulator each time.
//
// leftToRight selects the order in which other's changes are replayed
// into the clone of p. Each change's OldStart is expressed in p's
// new-coordinate space as it stood before this Combine call, so once an
// earlier replay has shifted that space, any not-yet-replayed change
// positioned after it would be splicing against a stale offset; walking
// other's changes back to front (leftToRight false) keeps every
// remaining OldStart valid, since a splice only ever shifts positions
// after itself. leftToRight true replays them front to back instead,
// which only differs when other holds more than one change.
func (p *Patch) Combine(other *Patch, leftToRight bool) {
	result := p.Clone()
	changes := other.GetChanges()

	replay := func(u *Change) {
		result.Splice(
			u.OldStart,
			u.OldEnd.Traversal(u.OldStart),
			u.NewEnd.Traversal(u.NewStart),
			u.OldText,
			u.NewText,
			u.OldTextSize,
		)
	}

	if leftToRight {
		for _, u := range changes {
			replay(u)
		}
	} else {
		for i := len(changes) - 1; i >= 0; i-- {
			replay(changes[i])
		}
	}
	*p = *result
}
