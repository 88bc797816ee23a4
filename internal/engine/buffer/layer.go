// Package buffer implements the layered, copy-on-write text-buffer engine:
// a stack of Layers over an immutable base Text, each holding a Patch of
// pending edits, with Snapshots that pin layers and collapse them back down
// on release. All coordinate math is expressed in the internal/engine/point
// and internal/engine/text vocabularies; internal/engine/patch supplies the
// ordered edit list each Layer consults.
package buffer

import (
	"github.com/inkwell/inkwell/internal/engine/patch"
	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// predecessor is the generic contract every Layer recurses against: either
// the immutable base text or the layer beneath. character_at, clip_position
// and for_each_chunk_in_range are all defined recursively in terms of it.
type predecessor interface {
	Size() uint32
	Extent() point.Point
	CharacterAt(p point.Point) uint16
	ClipPosition(p point.Point) point.ClipResult
	ForEachChunkInRange(start, end point.Point, cb func(text.TextSlice) bool) bool
}

// baseTextAdapter wraps an immutable text.Text so it satisfies predecessor;
// it is always the bottommost predecessor in a layer stack.
type baseTextAdapter struct {
	t                text.Text
	graphemeClipping bool
}

func (b baseTextAdapter) Size() uint32                      { return b.t.Size() }
func (b baseTextAdapter) Extent() point.Point               { return b.t.Extent() }
func (b baseTextAdapter) CharacterAt(p point.Point) uint16 { return b.t.At(p) }
func (b baseTextAdapter) ClipPosition(p point.Point) point.ClipResult {
	if b.graphemeClipping {
		return b.t.ClipPosition(p)
	}
	return b.t.ClipPositionRaw(p)
}

func (b baseTextAdapter) ForEachChunkInRange(start, end point.Point, cb func(text.TextSlice) bool) bool {
	if start.Equal(end) {
		return false
	}
	startOffset := b.ClipPosition(start).Offset
	endOffset := b.ClipPosition(end).Offset
	return cb(text.NewTextSlice(b.t).Slice(int(startOffset), int(endOffset)))
}

// Layer is one frame of the edit stack. The topmost layer of a Buffer is
// always is_last; a layer with is_first set wraps the base text directly
// rather than another Layer.
type Layer struct {
	predecessor   predecessor
	patch         *patch.Patch
	extent        point.Point
	size          uint32
	snapshotCount uint32
	isFirst       bool
	isLast        bool

	graphemeClipping bool
}

// newFirstLayer builds the sole layer of a freshly constructed buffer.
func newFirstLayer(base text.Text, graphemeClipping bool) *Layer {
	return &Layer{
		predecessor: baseTextAdapter{t: base, graphemeClipping: graphemeClipping},
		patch:       patch.New(),
		extent:      base.Extent(),
		size:        base.Size(),
		isFirst:     true,
		isLast:      true,

		graphemeClipping: graphemeClipping,
	}
}

// pushLayer allocates a new empty top layer above prev, demoting prev.
func pushLayer(prev *Layer) *Layer {
	prev.isLast = false
	return &Layer{
		predecessor: prev,
		patch:       patch.New(),
		extent:      prev.extent,
		size:        prev.size,
		isFirst:     false,
		isLast:      true,

		graphemeClipping: prev.graphemeClipping,
	}
}

// Size returns the cached size of the layer's virtual text.
func (l *Layer) Size() uint32 { return l.size }

// Extent returns the cached extent of the layer's virtual text.
func (l *Layer) Extent() point.Point { return l.extent }

// CharacterAt returns the code unit at position, recursing through the
// patch and, for untouched spans, the predecessor.
func (l *Layer) CharacterAt(position point.Point) uint16 {
	c := l.patch.FindChangeForNewPosition(position)
	if c == nil {
		return l.predecessor.CharacterAt(position)
	}
	if position.Less(c.NewEnd) {
		return c.NewText.At(position.Traversal(c.NewStart))
	}
	rebased := c.OldEnd.Traverse(position.Traversal(c.NewEnd))
	return l.predecessor.CharacterAt(rebased)
}

// changeForClip selects the Find- or authoritative Change-lookup variant
// depending on whether this layer is the topmost one; is_last layers alone
// are allowed to trust the boundary-sensitive authoritative variant.
func (l *Layer) changeForClip(position point.Point) *patch.Change {
	if l.isLast {
		return l.patch.ChangeForNewPosition(position)
	}
	return l.patch.FindChangeForNewPosition(position)
}

// ClipPosition snaps position onto a valid boundary and reports its
// absolute offset, guarding against bisecting a CRLF sequence that spans
// an edit boundary on either side.
func (l *Layer) ClipPosition(position point.Point) point.ClipResult {
	c := l.changeForClip(position)
	if c == nil {
		return l.predecessor.ClipPosition(position)
	}

	baseOffset := l.predecessor.ClipPosition(c.OldStart).Offset
	currentOffsetOfChangeStart := baseOffset + c.PrecedingNewTextSize - c.PrecedingOldTextSize

	if position.Less(c.NewEnd) {
		var inner point.ClipResult
		if l.graphemeClipping {
			inner = c.NewText.ClipPosition(position.Traversal(c.NewStart))
		} else {
			inner = c.NewText.ClipPositionRaw(position.Traversal(c.NewStart))
		}
		if inner.Offset == 0 && c.OldStart.Column > 0 && beginsWithLF(c.NewText) &&
			l.unitBeforePredecessor(c.OldStart) == '\r' {
			return point.ClipResult{
				Position: point.PreviousColumn(c.NewStart),
				Offset:   currentOffsetOfChangeStart - 1,
			}
		}
		return point.ClipResult{
			Position: c.NewStart.Traverse(inner.Position),
			Offset:   currentOffsetOfChangeStart + inner.Offset,
		}
	}

	rebased := c.OldEnd.Traverse(position.Traversal(c.NewEnd))
	base := l.predecessor.ClipPosition(rebased)
	distancePosition := base.Position.Traversal(c.OldEnd)
	distanceOffset := base.Offset - (baseOffset + c.OldTextSize)

	if distanceOffset == 0 && base.Offset < l.predecessor.Size() {
		var unitBefore uint16
		if c.NewText.Size() > 0 {
			unitBefore = lastUnit(c.NewText)
		} else if c.OldStart.Column > 0 {
			unitBefore = l.unitBeforePredecessor(c.OldStart)
		}
		if unitBefore == '\r' && l.predecessor.CharacterAt(base.Position) == '\n' {
			return point.ClipResult{
				Position: point.PreviousColumn(c.NewEnd),
				Offset:   currentOffsetOfChangeStart + c.NewText.Size() - 1,
			}
		}
	}

	return point.ClipResult{
		Position: c.NewEnd.Traverse(distancePosition),
		Offset:   currentOffsetOfChangeStart + c.NewText.Size() + distanceOffset,
	}
}

func (l *Layer) unitBeforePredecessor(p point.Point) uint16 {
	return l.predecessor.CharacterAt(point.PreviousColumn(p))
}

func beginsWithLF(t text.Text) bool {
	units := t.Units()
	return len(units) > 0 && units[0] == '\n'
}

func lastUnit(t text.Text) uint16 {
	units := t.Units()
	return units[len(units)-1]
}

// rebaseToPredecessor maps a layer-coordinate position that falls in a gap
// between changes (or before/after all of them) onto predecessor
// coordinates.
func (l *Layer) rebaseToPredecessor(pos point.Point) point.Point {
	c := l.patch.FindChangeForNewPosition(pos)
	if c == nil {
		return pos
	}
	if pos.Less(c.NewEnd) {
		return c.OldEnd
	}
	return c.OldEnd.Traverse(pos.Traversal(c.NewEnd))
}

// ForEachChunkInRange walks [start, end) emitting borrowed TextSlices drawn
// from inserted regions and predecessor spans, in order. It returns true if
// cb returned true (requesting early termination).
func (l *Layer) ForEachChunkInRange(start, end point.Point, cb func(text.TextSlice) bool) bool {
	current := start
	for current.Less(end) {
		change := l.patch.FindChangeEndingAfterNewPosition(current)
		if change == nil {
			return l.predecessor.ForEachChunkInRange(l.rebaseToPredecessor(current), l.rebaseToPredecessor(end), cb)
		}

		if current.Less(change.NewStart) {
			gapEnd := point.Min(change.NewStart, end)
			baseGapEnd := change.OldStart
			if gapEnd.Less(change.NewStart) {
				baseGapEnd = l.rebaseToPredecessor(gapEnd)
			}
			if l.predecessor.ForEachChunkInRange(l.rebaseToPredecessor(current), baseGapEnd, cb) {
				return true
			}
			current = gapEnd
			if !current.Less(end) {
				break
			}
		}

		if current.Less(change.NewEnd) {
			sliceEnd := point.Min(change.NewEnd, end)
			startRel := current.Traversal(change.NewStart)
			endRel := sliceEnd.Traversal(change.NewStart)
			slice := text.NewTextSlice(change.NewText).Between(startRel, endRel)
			if !slice.IsEmpty() {
				if cb(slice) {
					return true
				}
			}
			current = sliceEnd
		} else {
			current = change.NewEnd
		}
	}
	return false
}

// PositionForOffset iterates chunks from the origin, accumulating sizes
// until the goal offset falls within a chunk, then delegates to that
// chunk's own offset-to-position conversion.
func (l *Layer) PositionForOffset(goalOffset uint32) point.Point {
	if goalOffset >= l.size {
		return l.extent
	}
	var acc uint32
	var current point.Point
	var result point.Point
	l.ForEachChunkInRange(point.Zero, l.extent, func(slice text.TextSlice) bool {
		if acc+slice.Size() >= goalOffset {
			within := slice.ToText().PositionForOffset(goalOffset - acc)
			result = current.Traverse(within)
			return true
		}
		acc += slice.Size()
		current = current.Traverse(slice.Extent())
		return false
	})
	return result
}

// SetTextInRange replaces [oldRange.Start, oldRange.End) with newText,
// updating the layer's cached size/extent and recording the edit in its
// Patch. This only ever mutates the topmost layer.
func (l *Layer) SetTextInRange(oldRange point.Range, newText text.Text) {
	start := l.ClipPosition(oldRange.Start)
	end := l.ClipPosition(oldRange.End)

	newRangeEnd := start.Position.Traverse(newText.Extent())
	deletedTextSize := end.Offset - start.Offset

	l.extent = newRangeEnd.Traverse(l.extent.Traversal(oldRange.End))
	l.size = l.size + newText.Size() - deletedTextSize

	l.patch.Splice(oldRange.Start, oldRange.Extent(), newText.Extent(), nil, newText, deletedTextSize)
}

// SetText replaces the layer's entire virtual text with newText.
func (l *Layer) SetText(newText text.Text) {
	l.SetTextInRange(point.NewRange(point.Zero, l.extent), newText)
}

// LineLengthForRow returns the UTF-16 column count of the given row.
func (l *Layer) LineLengthForRow(row uint32) uint32 {
	return l.ClipPosition(point.New(row, ^uint32(0))).Position.Column
}

// LineEnding identifies which line terminator, if any, follows a row.
type LineEnding uint8

const (
	LineEndingNone LineEnding = iota
	LineEndingLF
	LineEndingCRLF
)

// LineEndingForRow inspects the unit(s) immediately after row's content and
// reports whether it is terminated by LF, CRLF, or nothing (the last row).
func (l *Layer) LineEndingForRow(row uint32) LineEnding {
	result := LineEndingNone
	l.ForEachChunkInRange(point.New(row, ^uint32(0)), point.New(row+1, 0), func(slice text.TextSlice) bool {
		units := slice.Units()
		if len(units) == 0 {
			return false
		}
		switch units[0] {
		case '\n':
			result = LineEndingLF
		case '\r':
			result = LineEndingCRLF
		}
		return true
	})
	return result
}
