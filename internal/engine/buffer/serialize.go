package buffer

import (
	"bytes"
	"encoding/binary"
	"io"
)

// SerializeOutstandingChanges writes the top layer's patch to sink,
// followed by the layer's cached size (u32) and extent (row then column,
// each a u32).
func (b *Buffer) SerializeOutstandingChanges(sink io.Writer) bool {
	var buf bytes.Buffer
	if err := b.topLayer.patch.Serialize(&buf); err != nil {
		b.logger.Warn("serialize_outstanding_changes: %v", err)
		return false
	}
	if err := binary.Write(&buf, binary.BigEndian, b.topLayer.size); err != nil {
		b.logger.Warn("serialize_outstanding_changes: write size: %v", err)
		return false
	}
	if err := binary.Write(&buf, binary.BigEndian, b.topLayer.extent.Row); err != nil {
		b.logger.Warn("serialize_outstanding_changes: write extent row: %v", err)
		return false
	}
	if err := binary.Write(&buf, binary.BigEndian, b.topLayer.extent.Column); err != nil {
		b.logger.Warn("serialize_outstanding_changes: write extent column: %v", err)
		return false
	}
	if _, err := sink.Write(buf.Bytes()); err != nil {
		b.logger.Warn("serialize_outstanding_changes: flush: %v", err)
		return false
	}
	return true
}

// DeserializeOutstandingChanges replaces the top layer's patch with one
// read from src, in the format written by SerializeOutstandingChanges.
// Forbidden unless the top layer is first and currently empty.
func (b *Buffer) DeserializeOutstandingChanges(src io.Reader) bool {
	if !b.topLayer.isFirst || b.topLayer.patch.GetChangeCount() > 0 {
		b.logger.Warn("deserialize_outstanding_changes: top layer is not first-and-empty")
		return false
	}
	if err := b.topLayer.patch.Deserialize(src); err != nil {
		b.logger.Warn("deserialize_outstanding_changes: %v", err)
		return false
	}
	var size, row, col uint32
	if err := binary.Read(src, binary.BigEndian, &size); err != nil {
		b.logger.Warn("deserialize_outstanding_changes: read size: %v", err)
		return false
	}
	if err := binary.Read(src, binary.BigEndian, &row); err != nil {
		b.logger.Warn("deserialize_outstanding_changes: read extent row: %v", err)
		return false
	}
	if err := binary.Read(src, binary.BigEndian, &col); err != nil {
		b.logger.Warn("deserialize_outstanding_changes: read extent column: %v", err)
		return false
	}
	b.topLayer.size = size
	b.topLayer.extent.Row = row
	b.topLayer.extent.Column = col
	return true
}
