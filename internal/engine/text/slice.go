package text

import "github.com/inkwell/inkwell/internal/engine/point"

// TextSlice is a borrowed, bounds-checked window onto a Text's code units.
// It never copies the underlying array; Prefix/Suffix/Slice all return new
// TextSlice values sharing the same backing storage.
type TextSlice struct {
	units []uint16
}

// NewTextSlice wraps an entire Text as a slice.
func NewTextSlice(t Text) TextSlice {
	return TextSlice{units: t.units}
}

// Units returns the code units covered by the slice.
func (s TextSlice) Units() []uint16 { return s.units }

// Size returns the number of UTF-16 code units in the slice.
func (s TextSlice) Size() uint32 { return uint32(len(s.units)) }

// Extent returns the (row, column) extent spanned by the slice.
func (s TextSlice) Extent() point.Point { return extentOf(s.units) }

// IsEmpty reports whether the slice covers zero code units.
func (s TextSlice) IsEmpty() bool { return len(s.units) == 0 }

// ToText materializes the slice into an owned Text.
func (s TextSlice) ToText() Text {
	units := make([]uint16, len(s.units))
	copy(units, s.units)
	return FromUnits(units)
}

// Slice returns the sub-slice covering the half-open unit-index range
// [startUnit, endUnit).
func (s TextSlice) Slice(startUnit, endUnit int) TextSlice {
	return TextSlice{units: s.units[startUnit:endUnit]}
}

// Prefix returns the leading portion of the slice up to the relative
// point extent (measured from the slice's own start, not absolute
// position), i.e. the same traversal arithmetic Point.Traverse uses.
func (s TextSlice) Prefix(extent point.Point) TextSlice {
	idx := unitIndexForRelativePoint(s.units, extent)
	return TextSlice{units: s.units[:idx]}
}

// Suffix returns the trailing portion of the slice whose own extent
// equals the given relative extent (i.e. everything after the point that
// is `extent` away from the slice's end).
func (s TextSlice) Suffix(extent point.Point) TextSlice {
	total := extentOf(s.units)
	idx := unitIndexForRelativePoint(s.units, subtractExtent(total, extent))
	return TextSlice{units: s.units[idx:]}
}

// Between returns the sub-slice spanning the relative extents
// [startExtent, endExtent), both measured from the slice's own start.
func (s TextSlice) Between(startExtent, endExtent point.Point) TextSlice {
	startIdx := unitIndexForRelativePoint(s.units, startExtent)
	endIdx := unitIndexForRelativePoint(s.units, endExtent)
	return TextSlice{units: s.units[startIdx:endIdx]}
}

// subtractExtent returns the relative point reached by traversing total
// minus trailing, under the same row/column traversal rules Point uses.
// It assumes trailing <= total in traversal terms.
func subtractExtent(total, trailing point.Point) point.Point {
	if trailing.Row == 0 {
		return point.Point{Row: total.Row, Column: total.Column - trailing.Column}
	}
	// A trailing extent that crosses rows does not fix the column it starts
	// at (Traverse ignores the starting column whenever the delta crosses
	// rows), so the result is the beginning of that starting row.
	return point.Point{Row: total.Row - trailing.Row, Column: 0}
}

// unitIndexForRelativePoint scans units from the start, counting rows and
// columns, until the relative traversal reaches target, returning the
// code-unit index at that point. Used by Prefix/Suffix, whose boundaries
// are expressed as relative extents rather than absolute positions.
func unitIndexForRelativePoint(units []uint16, target point.Point) int {
	var row, col uint32
	for i, u := range units {
		if row == target.Row && col == target.Column {
			return i
		}
		if u == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return len(units)
}
