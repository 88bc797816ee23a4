package patch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// Serialize writes the patch's changes to w in a simple length-prefixed
// binary format: a change count, then each change's old/new points, sizes,
// and NewText code units. OldText is never persisted — it exists only as
// an in-memory hint and has no bearing on the patch's own semantics.
func (p *Patch) Serialize(w io.Writer) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(p.changes))); err != nil {
		return err
	}
	for _, c := range p.changes {
		writePoint(&buf, c.OldStart)
		writePoint(&buf, c.OldEnd)
		writePoint(&buf, c.NewStart)
		writePoint(&buf, c.NewEnd)
		if err := binary.Write(&buf, binary.BigEndian, c.OldTextSize); err != nil {
			return err
		}
		units := c.NewText.Units()
		if err := binary.Write(&buf, binary.BigEndian, uint32(len(units))); err != nil {
			return err
		}
		if err := binary.Write(&buf, binary.BigEndian, units); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Deserialize replaces the patch's contents with changes read from r in
// the format written by Serialize.
func (p *Patch) Deserialize(r io.Reader) error {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return fmt.Errorf("patch: read change count: %w", err)
	}
	changes := make([]*Change, 0, count)
	for i := uint32(0); i < count; i++ {
		c := &Change{}
		c.OldStart = readPoint(r)
		c.OldEnd = readPoint(r)
		c.NewStart = readPoint(r)
		c.NewEnd = readPoint(r)
		if err := binary.Read(r, binary.BigEndian, &c.OldTextSize); err != nil {
			return fmt.Errorf("patch: read change %d old_text_size: %w", i, err)
		}
		var unitCount uint32
		if err := binary.Read(r, binary.BigEndian, &unitCount); err != nil {
			return fmt.Errorf("patch: read change %d text length: %w", i, err)
		}
		units := make([]uint16, unitCount)
		if err := binary.Read(r, binary.BigEndian, units); err != nil {
			return fmt.Errorf("patch: read change %d text: %w", i, err)
		}
		c.NewText = text.FromUnits(units)
		changes = append(changes, c)
	}
	p.changes = changes
	p.rebuildPrecedingSizes()
	return nil
}

func writePoint(buf *bytes.Buffer, p point.Point) {
	binary.Write(buf, binary.BigEndian, p.Row)
	binary.Write(buf, binary.BigEndian, p.Column)
}

func readPoint(r io.Reader) point.Point {
	var row, col uint32
	binary.Read(r, binary.BigEndian, &row)
	binary.Read(r, binary.BigEndian, &col)
	return point.New(row, col)
}
