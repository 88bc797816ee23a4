package buffer

import (
	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// Snapshot pins a Layer, guaranteeing that reads routed through it observe
// the exact virtual text frozen at the moment the snapshot was created,
// regardless of later mutation on the buffer's own top layer.
type Snapshot struct {
	buffer   *Buffer
	layer    *Layer
	released bool
}

// CreateSnapshot freezes the buffer's current top layer and returns a
// Snapshot pinning it. If the top layer is already empty and non-first, the
// snapshot elides allocating a new layer and attaches directly to the
// layer beneath.
func (b *Buffer) CreateSnapshot() *Snapshot {
	top := b.topLayer
	if !top.isFirst && top.patch.GetChangeCount() == 0 {
		pred := top.predecessor.(*Layer)
		pred.snapshotCount++
		return &Snapshot{buffer: b, layer: pred}
	}

	top.isLast = false
	pinned := top
	pinned.snapshotCount++
	b.topLayer = pushLayer(top)
	return &Snapshot{buffer: b, layer: pinned}
}

// Size returns the size of the text frozen by the snapshot.
func (s *Snapshot) Size() uint32 { return s.layer.Size() }

// Extent returns the extent of the text frozen by the snapshot.
func (s *Snapshot) Extent() point.Point { return s.layer.Extent() }

// LineLengthForRow returns the UTF-16 column count of row in the frozen text.
func (s *Snapshot) LineLengthForRow(row uint32) uint32 { return s.layer.LineLengthForRow(row) }

// Text materializes the snapshot's full frozen content.
func (s *Snapshot) Text() text.Text {
	return s.TextInRange(point.NewRange(point.Zero, s.layer.Extent()))
}

// TextInRange materializes the frozen content covered by r.
func (s *Snapshot) TextInRange(r point.Range) text.Text {
	result := text.Empty
	s.ChunksInRange(r, func(slice text.TextSlice) bool {
		result = result.Append(slice.ToText())
		return false
	})
	return result
}

// Chunks invokes cb with every chunk covering the frozen text.
func (s *Snapshot) Chunks(cb func(text.TextSlice) bool) {
	s.layer.ForEachChunkInRange(point.Zero, s.layer.Extent(), cb)
}

// ChunksInRange invokes cb with every chunk covering r in the frozen text.
func (s *Snapshot) ChunksInRange(r point.Range, cb func(text.TextSlice) bool) {
	s.layer.ForEachChunkInRange(r.Start, r.End, cb)
}

// Release drops the snapshot's pin on its layer. If this was the layer's
// last snapshot, and the buffer's live top layer is itself unpinned, the
// buffer collapses every unpinned layer between the pinned frontier and its
// top down into a single layer.
func (s *Snapshot) Release() {
	if s.released {
		return
	}
	s.released = true

	s.layer.snapshotCount--
	if s.layer.snapshotCount > 0 {
		return
	}
	if s.buffer.topLayer.snapshotCount > 0 {
		return
	}
	s.buffer.collapse()
}

// collapse walks down from the live top layer collecting every layer whose
// predecessor has a zero snapshot count, then folds them into the deepest
// surviving layer by repeated Patch composition, alternating the
// left_to_right direction at each fold step.
func (b *Buffer) collapse() {
	top := b.topLayer

	var toRemove []*Layer
	cursor := top
	for {
		pred, ok := cursor.predecessor.(*Layer)
		if !ok || pred.snapshotCount > 0 {
			break
		}
		toRemove = append(toRemove, cursor)
		cursor = pred
	}

	bottom := cursor
	if len(toRemove) == 0 {
		return
	}

	bottom.size = top.size
	bottom.extent = top.extent

	leftToRight := true
	for i := len(toRemove) - 1; i >= 0; i-- {
		bottom.patch.Combine(toRemove[i].patch, leftToRight)
		leftToRight = !leftToRight
	}

	bottom.isLast = true
	b.topLayer = bottom
}
