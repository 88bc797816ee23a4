// Package point provides the coordinate types shared across the text-buffer
// engine: a (row, column) position measured in UTF-16 code units, the
// ranges built from it, and the absolute-offset result of clipping a
// position onto a valid boundary.
package point

import "fmt"

// Point identifies a position by zero-indexed line and UTF-16 code-unit
// column within that line.
type Point struct {
	Row    uint32
	Column uint32
}

// Zero is the origin position (0, 0).
var Zero = Point{}

// New constructs a Point from a row and column.
func New(row, column uint32) Point {
	return Point{Row: row, Column: column}
}

// String returns a human-readable "(row, column)" representation.
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Compare returns -1, 0, or 1 as p is less than, equal to, or greater than other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts before other.
func (p Point) Less(other Point) bool { return p.Compare(other) < 0 }

// LessEqual reports whether p sorts before or equal to other.
func (p Point) LessEqual(other Point) bool { return p.Compare(other) <= 0 }

// Equal reports whether p and other denote the same position.
func (p Point) Equal(other Point) bool { return p.Compare(other) == 0 }

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool { return p.Row == 0 && p.Column == 0 }

// Min returns the lesser of a and b by Compare.
func Min(a, b Point) Point {
	if a.Less(b) {
		return a
	}
	return b
}

// Max returns the greater of a and b by Compare.
func Max(a, b Point) Point {
	if a.Less(b) {
		return b
	}
	return a
}

// Traverse adds the relative Point delta to p: if delta.Row is zero, the
// column is added on the same row; otherwise p moves delta.Row rows down
// and lands at column delta.Column on the destination row.
func (p Point) Traverse(delta Point) Point {
	if delta.Row == 0 {
		return Point{Row: p.Row, Column: p.Column + delta.Column}
	}
	return Point{Row: p.Row + delta.Row, Column: delta.Column}
}

// Traversal returns the relative Point that, given to start.Traverse,
// reaches p. It is the inverse of Traverse: start.Traverse(p.Traversal(start)) == p.
func (p Point) Traversal(start Point) Point {
	if p.Row == start.Row {
		return Point{Row: 0, Column: p.Column - start.Column}
	}
	return Point{Row: p.Row - start.Row, Column: p.Column}
}

// Range is a half-open interval [Start, End) of Points, Start <= End.
type Range struct {
	Start Point
	End   Point
}

// NewRange builds a Range from two Points.
func NewRange(start, end Point) Range {
	return Range{Start: start, End: end}
}

// Extent returns the relative traversal from Start to End.
func (r Range) Extent() Point {
	return r.End.Traversal(r.Start)
}

// IsEmpty reports whether the range spans no positions.
func (r Range) IsEmpty() bool { return r.Start.Equal(r.End) }

// String returns a human-readable "[start, end)" representation.
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}

// ClipResult is a position snapped onto a valid boundary together with its
// absolute code-unit offset from the owning text's start.
type ClipResult struct {
	Position Point
	Offset   uint32
}

// PreviousColumn returns p shifted one column to the left on the same row.
// Callers are responsible for ensuring p.Column > 0.
func PreviousColumn(p Point) Point {
	return Point{Row: p.Row, Column: p.Column - 1}
}
