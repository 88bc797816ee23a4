// Package iter implements a surrogate-aware, bidirectional iterator over a
// sequence of text.TextSlice chunks, decoding UTF-16 surrogate pairs into
// Unicode scalar values as it walks. internal/engine/search drains it to
// feed an ECMAScript-flavored regex engine that expects runes, not raw
// code units.
package iter

import (
	"math"

	"github.com/inkwell/inkwell/internal/engine/text"
)

const sentinel = math.MaxUint32

func isHighSurrogate(c uint16) bool { return c&0xFC00 == 0xD800 }
func isLowSurrogate(c uint16) bool  { return c >= 0xDC00 && c <= 0xDFFF }

// Iterator walks a list of chunks one Unicode scalar value at a time,
// transparently combining a high/low surrogate pair that may straddle a
// chunk boundary.
type Iterator struct {
	chunks     []text.TextSlice
	chunkIndex uint32
	unitIndex  int
}

// New returns an iterator positioned at the start of chunks.
func New(chunks []text.TextSlice) *Iterator {
	it := &Iterator{chunks: chunks}
	it.seekFirst()
	return it
}

func (it *Iterator) seekFirst() {
	for i, c := range it.chunks {
		if c.Size() > 0 {
			it.chunkIndex = uint32(i)
			it.unitIndex = 0
			return
		}
	}
	it.chunkIndex = sentinel
}

func (it *Iterator) seekLast() {
	for i := len(it.chunks) - 1; i >= 0; i-- {
		if it.chunks[i].Size() > 0 {
			it.chunkIndex = uint32(i)
			it.unitIndex = int(it.chunks[i].Size()) - 1
			return
		}
	}
	it.chunkIndex = sentinel
}

// End reports whether the iterator has run off either end of the chunk
// sequence.
func (it *Iterator) End() bool { return it.chunkIndex == sentinel }

func (it *Iterator) currentUnit() uint16 {
	return it.chunks[it.chunkIndex].Units()[it.unitIndex]
}

func (it *Iterator) nextUnit() (uint16, bool) {
	if int(it.unitIndex+1) < int(it.chunks[it.chunkIndex].Size()) {
		return it.chunks[it.chunkIndex].Units()[it.unitIndex+1], true
	}
	for ci := it.chunkIndex + 1; ci < uint32(len(it.chunks)); ci++ {
		if it.chunks[ci].Size() > 0 {
			return it.chunks[ci].Units()[0], true
		}
	}
	return 0, false
}

// Value decodes the scalar value at the iterator's current position,
// combining a surrogate pair when the low half lives in the next chunk.
func (it *Iterator) Value() rune {
	hi := it.currentUnit()
	if !isHighSurrogate(hi) {
		return rune(hi)
	}
	lo, ok := it.nextUnit()
	if !ok || !isLowSurrogate(lo) {
		return rune(hi)
	}
	return (rune(hi&0x3FF)<<10 | rune(lo&0x3FF)) + 0x10000
}

// Next advances the iterator by one scalar value.
func (it *Iterator) Next() {
	if it.End() {
		return
	}
	wasHighSurrogate := isHighSurrogate(it.currentUnit())

	it.unitIndex++
	if it.unitIndex >= int(it.chunks[it.chunkIndex].Size()) {
		it.advanceChunk()
	}
	if it.End() {
		return
	}
	if wasHighSurrogate && isLowSurrogate(it.currentUnit()) {
		it.unitIndex++
		if it.unitIndex >= int(it.chunks[it.chunkIndex].Size()) {
			it.advanceChunk()
		}
	}
}

func (it *Iterator) advanceChunk() {
	for ci := it.chunkIndex + 1; ci < uint32(len(it.chunks)); ci++ {
		if it.chunks[ci].Size() > 0 {
			it.chunkIndex = ci
			it.unitIndex = 0
			return
		}
	}
	it.chunkIndex = sentinel
}

// Prev retreats the iterator by one scalar value.
func (it *Iterator) Prev() {
	if it.End() {
		it.seekLast()
		if it.End() {
			return
		}
	} else if !it.retreatUnit() {
		return
	}
	if isLowSurrogate(it.currentUnit()) {
		before := it.unitIndex
		beforeChunk := it.chunkIndex
		if !it.retreatUnit() {
			it.chunkIndex = beforeChunk
			it.unitIndex = before
			return
		}
	}
}

func (it *Iterator) retreatUnit() bool {
	if it.unitIndex > 0 {
		it.unitIndex--
		return true
	}
	for ci := int(it.chunkIndex) - 1; ci >= 0; ci-- {
		if it.chunks[ci].Size() > 0 {
			it.chunkIndex = uint32(ci)
			it.unitIndex = int(it.chunks[ci].Size()) - 1
			return true
		}
	}
	return false
}
