// Package search implements regular-expression search over a buffer's
// chunk sequence. It compiles patterns in ECMAScript mode and matches
// against the scalar-value stream produced by internal/engine/iter, since
// the underlying regex engine has no notion of UTF-16 code units.
package search

import (
	"github.com/dlclark/regexp2"

	"github.com/inkwell/inkwell/internal/engine/iter"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// Sentinels returned by Search in place of a code-unit offset.
const (
	InvalidPattern int64 = -1
	NoResults      int64 = -2
)

// Search compiles pattern as an ECMAScript regex and returns the absolute
// UTF-16 code-unit offset of its first match within chunks, or one of the
// InvalidPattern/NoResults sentinels.
//
// The bidirectional iterator yields Unicode scalar values, not code units,
// so a match position reported in rune space is translated back to
// code-unit space via a prefix-sum table built while draining the iterator.
func Search(chunks []text.TextSlice, pattern string) int64 {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return InvalidPattern
	}

	runes, unitOffsets, totalUnits := drain(chunks)

	match, err := re.FindRunesMatch(runes)
	if err != nil || match == nil {
		return NoResults
	}

	if match.Index == len(runes) {
		return int64(totalUnits)
	}
	return int64(unitOffsets[match.Index])
}

// drain materializes every scalar value reachable through chunks alongside
// the code-unit offset each one starts at, so a rune-space match index can
// be translated back into the buffer's native UTF-16 coordinate space. The
// final return value is the total code-unit count, needed when a match
// lands in the empty span past the last rune.
func drain(chunks []text.TextSlice) ([]rune, []uint32, uint32) {
	it := iter.New(chunks)
	var runes []rune
	var offsets []uint32
	var unit uint32
	for !it.End() {
		v := it.Value()
		runes = append(runes, v)
		offsets = append(offsets, unit)
		if v >= 0x10000 {
			unit += 2
		} else {
			unit++
		}
		it.Next()
	}
	return runes, offsets, unit
}
