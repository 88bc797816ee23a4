package buffer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/applog"
	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/search"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// Search sentinels returned by Buffer.Search.
const (
	InvalidPattern = search.InvalidPattern
	NoResults      = search.NoResults
)

// Buffer is the layered, copy-on-write text-buffer engine: an immutable
// base text overlaid by a stack of Layers, each holding a Patch of pending
// edits. Exactly one layer is ever the top layer at a time.
type Buffer struct {
	id               uuid.UUID
	baseText         text.Text
	topLayer         *Layer
	logger           *applog.Logger
	graphemeClipping bool
	preferredEnding  LineEnding
	tabWidth         int
	digestSeed       uint64
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// New constructs a Buffer with an empty base text; NewFromText supplies an
// initial one.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:               uuid.New(),
		baseText:         text.Empty,
		logger:           applog.Default().WithComponent("buffer"),
		graphemeClipping: true,
		preferredEnding:  LineEndingNone,
		tabWidth:         4,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.baseText = normalizeLineEndings(b.baseText, b.preferredEnding)
	b.topLayer = newFirstLayer(b.baseText, b.graphemeClipping)
	return b
}

// NewFromText constructs a Buffer whose base text is initial.
func NewFromText(initial text.Text, opts ...Option) *Buffer {
	opts = append([]Option{func(b *Buffer) { b.baseText = initial }}, opts...)
	return New(opts...)
}

// WithLogger overrides the buffer's diagnostic logger.
func WithLogger(l *applog.Logger) Option {
	return func(b *Buffer) { b.logger = l }
}

// WithGraphemeClipping toggles grapheme-cluster-aware snapping in
// ClipPosition. Enabled by default; disabling it snaps only to code-unit
// boundaries.
func WithGraphemeClipping(enabled bool) Option {
	return func(b *Buffer) { b.graphemeClipping = enabled }
}

// WithLineEnding sets the buffer's preferred line-ending style. Base text,
// whether supplied at construction or later via ResetBaseText, is
// normalized to this style. LineEndingNone, the default, means no
// normalization is applied, leaving mixed line endings as found.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) { b.preferredEnding = le }
}

// WithTabWidth sets the buffer's stored tab width. Non-positive values are
// ignored. The engine itself does no tab expansion; this is carried for
// callers (a cursor or rendering layer) that need it alongside the text.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithDigestSeed sets the seed Digest passes to BaseTextDigest.
func WithDigestSeed(seed uint64) Option {
	return func(b *Buffer) { b.digestSeed = seed }
}

// ID returns the buffer's opaque identity, used only for log correlation
// and introspection.
func (b *Buffer) ID() uuid.UUID { return b.id }

// LineEnding returns the buffer's preferred line-ending style.
func (b *Buffer) LineEnding() LineEnding { return b.preferredEnding }

// TabWidth returns the buffer's stored tab width.
func (b *Buffer) TabWidth() int { return b.tabWidth }

// Digest hashes the base text via BaseTextDigest, seeded with the value
// configured by WithDigestSeed (zero if none was given).
func (b *Buffer) Digest() uint64 { return b.BaseTextDigest(b.digestSeed) }

// normalizeLineEndings rewrites every line terminator in t to match le. A
// preference of LineEndingNone leaves t unchanged.
func normalizeLineEndings(t text.Text, le LineEnding) text.Text {
	switch le {
	case LineEndingLF:
		return text.FromString(strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(t.String()))
	case LineEndingCRLF:
		s := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(t.String())
		return text.FromString(strings.ReplaceAll(s, "\n", "\r\n"))
	default:
		return t
	}
}

// Mutation

// SetTextInRange replaces the text covered by r with newText.
func (b *Buffer) SetTextInRange(r point.Range, newText text.Text) {
	b.topLayer.SetTextInRange(r, newText)
}

// SetText replaces the buffer's entire content with newText.
func (b *Buffer) SetText(newText text.Text) {
	b.topLayer.SetText(newText)
}

// ResetBaseText replaces the base text wholesale. It is forbidden once any
// snapshot has forked a layer beneath the top one.
func (b *Buffer) ResetBaseText(newBase text.Text) bool {
	if !b.topLayer.isFirst {
		b.logger.Warn("reset_base_text: top layer is not first")
		return false
	}
	newBase = normalizeLineEndings(newBase, b.preferredEnding)
	b.baseText = newBase
	b.topLayer.patch.Clear()
	b.topLayer.predecessor = baseTextAdapter{t: newBase, graphemeClipping: b.graphemeClipping}
	b.topLayer.size = newBase.Size()
	b.topLayer.extent = newBase.Extent()
	return true
}

// FlushOutstandingChanges bakes every pending change in the top layer's
// patch directly into the base text, then clears the patch. Forbidden
// under the same condition as ResetBaseText.
func (b *Buffer) FlushOutstandingChanges() bool {
	if !b.topLayer.isFirst {
		b.logger.Warn("flush_outstanding_changes: top layer is not first")
		return false
	}

	base := text.NewTextSlice(b.baseText)
	result := text.Empty
	cursor := point.Zero
	for _, c := range b.topLayer.patch.GetChanges() {
		result = result.Append(base.Between(cursor, c.OldStart).ToText())
		result = result.Append(c.NewText)
		cursor = c.OldEnd
	}
	result = result.Append(base.Between(cursor, b.baseText.Extent()).ToText())

	b.baseText = result
	b.topLayer.patch.Clear()
	b.topLayer.predecessor = baseTextAdapter{t: b.baseText, graphemeClipping: b.graphemeClipping}
	return true
}

// Reads

// Extent returns the buffer's current virtual extent.
func (b *Buffer) Extent() point.Point { return b.topLayer.Extent() }

// Size returns the buffer's current virtual size in UTF-16 code units.
func (b *Buffer) Size() uint32 { return b.topLayer.Size() }

// ClipPosition snaps p onto a valid boundary and reports its absolute
// offset.
func (b *Buffer) ClipPosition(p point.Point) point.ClipResult {
	return b.topLayer.ClipPosition(p)
}

// PositionForOffset returns the position of the given absolute offset.
func (b *Buffer) PositionForOffset(offset uint32) point.Point {
	return b.topLayer.PositionForOffset(offset)
}

// LineLengthForRow returns the UTF-16 column count of the given row.
func (b *Buffer) LineLengthForRow(row uint32) uint32 {
	return b.topLayer.LineLengthForRow(row)
}

// LineEndingForRow reports which terminator, if any, follows row.
func (b *Buffer) LineEndingForRow(row uint32) LineEnding {
	return b.topLayer.LineEndingForRow(row)
}

// Chunks invokes cb with every borrowed TextSlice covering the whole
// buffer, in order, stopping early if cb returns true.
func (b *Buffer) Chunks(cb func(text.TextSlice) bool) {
	b.topLayer.ForEachChunkInRange(point.Zero, b.topLayer.Extent(), cb)
}

// ChunksInRange invokes cb with every borrowed TextSlice covering r.
func (b *Buffer) ChunksInRange(r point.Range, cb func(text.TextSlice) bool) {
	b.topLayer.ForEachChunkInRange(r.Start, r.End, cb)
}

// Text materializes the buffer's full content.
func (b *Buffer) Text() text.Text {
	return b.TextInRange(point.NewRange(point.Zero, b.topLayer.Extent()))
}

// TextInRange materializes the content covered by r.
func (b *Buffer) TextInRange(r point.Range) text.Text {
	result := text.Empty
	b.ChunksInRange(r, func(slice text.TextSlice) bool {
		result = result.Append(slice.ToText())
		return false
	})
	return result
}

// Search compiles pattern as an ECMAScript regex and returns the absolute
// code-unit offset of its first match in the buffer's current text, or one
// of the InvalidPattern/NoResults sentinels.
func (b *Buffer) Search(pattern string) int64 {
	var chunks []text.TextSlice
	b.Chunks(func(slice text.TextSlice) bool {
		chunks = append(chunks, slice)
		return false
	})
	return search.Search(chunks, pattern)
}

// IsModified reports whether any layer, from the base up, still holds a
// non-empty patch of pending edits.
func (b *Buffer) IsModified() bool {
	for l := b.topLayer; l != nil; {
		if l.patch.GetChangeCount() > 0 {
			return true
		}
		pred, ok := l.predecessor.(*Layer)
		if !ok {
			return false
		}
		l = pred
	}
	return false
}
