// Package text implements the concrete UTF-16 code-unit storage that the
// layered buffer engine treats as an external collaborator: Text (the
// immutable base content container) and TextSlice (a borrowed window into
// it). Both are deliberately simple flat buffers — the "hard part" budget
// of this repository belongs to the patch/layer coordinate translation in
// internal/engine/patch and internal/engine/buffer, not to text storage.
package text

import (
	"unicode/utf16"

	"github.com/rivo/uniseg"

	"github.com/inkwell/inkwell/internal/engine/point"
)

// Text is an immutable sequence of UTF-16 code units with cached size and
// extent. All mutating operations return a new Text; callers that want
// in-place growth use Append, which allocates a fresh backing array unless
// one of its operands is empty, in which case it returns the other one.
type Text struct {
	units  []uint16
	extent point.Point
}

// Empty is the zero-length Text.
var Empty = Text{}

// FromString builds a Text from a UTF-8 string.
func FromString(s string) Text {
	return FromUnits(utf16.Encode([]rune(s)))
}

// FromUnits builds a Text from raw UTF-16 code units, taking ownership of
// the slice (callers must not mutate it afterwards).
func FromUnits(units []uint16) Text {
	return Text{units: units, extent: extentOf(units)}
}

// extentOf computes the (row, column) extent of a code-unit run by
// counting line feeds. Only "\n" advances the row: a lone "\r", and the
// "\r" of a "\r\n" pair, each count as one column, since column counts are
// measured in code units, not glyphs.
func extentOf(units []uint16) point.Point {
	var row, col uint32
	for _, u := range units {
		if u == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return point.Point{Row: row, Column: col}
}

// String renders the text back to UTF-8.
func (t Text) String() string {
	return string(utf16.Decode(t.units))
}

// Units returns the underlying UTF-16 code units. Callers must not mutate
// the returned slice.
func (t Text) Units() []uint16 { return t.units }

// Size returns the number of UTF-16 code units.
func (t Text) Size() uint32 { return uint32(len(t.units)) }

// Extent returns the (row, column) extent of the text.
func (t Text) Extent() point.Point { return t.extent }

// IsEmpty reports whether the text has zero code units.
func (t Text) IsEmpty() bool { return len(t.units) == 0 }

// At returns the code unit at the given position. A column past the end of
// its line reads the unit at that line's end, and a position past the end
// of the text yields 0.
func (t Text) At(p point.Point) uint16 {
	idx := t.unitIndexForPoint(p)
	if idx >= len(t.units) {
		return 0
	}
	return t.units[idx]
}

// lineBounds returns the [start, end) unit-index range of the given row,
// excluding any line-terminator code units, plus the index just past the
// terminator (the start of the next row, or len(units) on the last row).
func (t Text) lineBounds(row uint32) (start, end, nextRowStart int) {
	start = 0
	var r uint32
	for i, u := range t.units {
		if r == row {
			break
		}
		if u == '\n' {
			r++
			start = i + 1
		}
	}
	end = start
	for end < len(t.units) && t.units[end] != '\n' {
		end++
	}
	if end < len(t.units) {
		nextRowStart = end + 1
		if end > start && t.units[end-1] == '\r' {
			end--
		}
	} else {
		nextRowStart = end
	}
	return start, end, nextRowStart
}

// unitIndexForPoint converts a position into a code-unit index without
// grapheme-snapping. Rows beyond the text project onto the
// final unit index; columns beyond a line project onto that line's end.
func (t Text) unitIndexForPoint(p point.Point) int {
	if p.Row > t.extent.Row {
		return len(t.units)
	}
	start, end, _ := t.lineBounds(p.Row)
	idx := start + int(p.Column)
	if idx > end {
		idx = end
	}
	return idx
}

// ClipPosition snaps p onto a valid grapheme-cluster boundary within the
// text and reports the absolute code-unit offset of that boundary from the
// start of the text. Rows/columns past the end of the text clip to the end
// of the corresponding line (or the whole text, for rows past the last).
func (t Text) ClipPosition(p point.Point) point.ClipResult {
	return t.clipPosition(p, true)
}

// ClipPositionRaw behaves like ClipPosition but clips only to code-unit
// boundaries, without widening to the enclosing grapheme cluster. Buffers
// constructed with grapheme clipping disabled use this variant.
func (t Text) ClipPositionRaw(p point.Point) point.ClipResult {
	return t.clipPosition(p, false)
}

func (t Text) clipPosition(p point.Point, snapGraphemes bool) point.ClipResult {
	row := p.Row
	pastLastRow := row > t.extent.Row
	if pastLastRow {
		row = t.extent.Row
	}
	start, end, _ := t.lineBounds(row)

	col := int(p.Column)
	lineLen := end - start
	if col > lineLen || pastLastRow {
		col = lineLen
	}

	if snapGraphemes {
		col = snapToGraphemeBoundary(t.units[start:end], col)
	}

	offset := t.offsetOfLineStart(row) + uint32(col)
	return point.ClipResult{Position: point.Point{Row: row, Column: uint32(col)}, Offset: offset}
}

// offsetOfLineStart returns the absolute code-unit offset of the first
// column of the given row, counting line-terminator units already passed.
func (t Text) offsetOfLineStart(row uint32) uint32 {
	if row == 0 {
		return 0
	}
	start, _, _ := t.lineBounds(row)
	return uint32(start)
}

// snapToGraphemeBoundary clamps col (a code-unit offset within line) down
// to the start of whichever grapheme cluster it falls inside, so that a
// surrogate pair or a combining-mark sequence is never bisected.
func snapToGraphemeBoundary(line []uint16, col int) int {
	if col <= 0 || col >= len(line) {
		return col
	}
	runes := utf16.Decode(line)
	s := string(runes)

	unitAt := make([]int, 0, len(runes)+1)
	units := 0
	for _, r := range runes {
		unitAt = append(unitAt, units)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	unitAt = append(unitAt, units)

	state := -1
	runeIdx := 0
	for len(s) > 0 {
		clusterBytes, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		runesInCluster := len([]rune(clusterBytes))
		startUnit := unitAt[runeIdx]
		runeIdx += runesInCluster
		endUnit := unitAt[runeIdx]
		if col > startUnit && col < endUnit {
			return startUnit
		}
		if col == endUnit {
			return col
		}
		s = rest
		state = newState
	}
	return col
}

// Splice replaces the region [start, start+oldExtent) with newText,
// returning the resulting Text.
func (t Text) Splice(start point.Point, oldExtent point.Point, newText Text) Text {
	oldEnd := start.Traverse(oldExtent)
	startIdx := t.unitIndexForPoint(start)
	endIdx := t.unitIndexForPoint(oldEnd)

	result := make([]uint16, 0, startIdx+len(newText.units)+(len(t.units)-endIdx))
	result = append(result, t.units[:startIdx]...)
	result = append(result, newText.units...)
	result = append(result, t.units[endIdx:]...)
	return FromUnits(result)
}

// Append concatenates other onto the end of t, returning the result.
func (t Text) Append(other Text) Text {
	if other.IsEmpty() {
		return t
	}
	if t.IsEmpty() {
		return other
	}
	result := make([]uint16, 0, len(t.units)+len(other.units))
	result = append(result, t.units...)
	result = append(result, other.units...)
	return FromUnits(result)
}

// PositionForOffset returns the position of the given absolute code-unit
// offset, clamping offsets past the end of the text onto its extent.
func (t Text) PositionForOffset(offset uint32) point.Point {
	if offset >= uint32(len(t.units)) {
		return t.extent
	}
	var row, col uint32
	for i := uint32(0); i < offset; i++ {
		if t.units[i] == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return point.Point{Row: row, Column: col}
}

// Digest returns a stable, order-sensitive mixing-function hash of the
// text's code units, suitable for cheap change detection across mutations
// that do not alter the text itself.
func (t Text) Digest(seed uint64) uint64 {
	for _, u := range t.units {
		seed ^= uint64(u) + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	return seed
}
