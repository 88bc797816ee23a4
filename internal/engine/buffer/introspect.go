package buffer

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// BaseTextDigest hashes the base text's code units via a stable mixing
// function, returning an opaque value suitable for cheap change detection.
func (b *Buffer) BaseTextDigest(seed uint64) uint64 {
	return b.baseText.Digest(seed)
}

// GetDotGraph produces a Graphviz-like textual dump: one node for the base
// text, then one node per layer from bottom to top giving its index
// (counted from the bottom, as in DebugSnapshot), snapshot count, and
// change count.
func (b *Buffer) GetDotGraph() string {
	var layers []*Layer
	for l := b.topLayer; l != nil; {
		layers = append(layers, l)
		pred, ok := l.predecessor.(*Layer)
		if !ok {
			break
		}
		l = pred
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph buffer_%s {\n", b.id)
	fmt.Fprintf(&sb, "  base [label=\"base_text size=%d extent=%s\"];\n", b.baseText.Size(), b.baseText.Extent())

	prevNode := "base"
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		index := len(layers) - 1 - i
		node := fmt.Sprintf("layer%d", index)
		fmt.Fprintf(&sb, "  %s [label=\"layer %d snapshots=%d changes=%d\"];\n",
			node, index, l.snapshotCount, l.patch.GetChangeCount())
		fmt.Fprintf(&sb, "  %s -> %s;\n", prevNode, node)
		prevNode = node
	}
	sb.WriteString("}\n")
	return sb.String()
}

// DebugSnapshot is a JSON-projectable summary of the buffer's live layer
// stack, an alternative to GetDotGraph for tooling that wants structured
// rather than textual introspection.
type DebugSnapshot struct {
	ID         string       `json:"id"`
	BaseSize   uint32       `json:"base_size"`
	Digest     uint64       `json:"digest"`
	LayerCount int          `json:"layer_count"`
	Layers     []LayerDebug `json:"layers"`
}

// LayerDebug summarizes a single layer for DebugSnapshot.
type LayerDebug struct {
	Index         int    `json:"index"`
	SnapshotCount uint32 `json:"snapshot_count"`
	ChangeCount   int    `json:"change_count"`
	Size          uint32 `json:"size"`
	IsFirst       bool   `json:"is_first"`
	IsLast        bool   `json:"is_last"`
}

// DebugSnapshot builds a structured projection of the buffer's layer stack.
func (b *Buffer) DebugSnapshot() DebugSnapshot {
	var layers []*Layer
	for l := b.topLayer; l != nil; {
		layers = append(layers, l)
		pred, ok := l.predecessor.(*Layer)
		if !ok {
			break
		}
		l = pred
	}

	out := DebugSnapshot{
		ID:         b.id.String(),
		BaseSize:   b.baseText.Size(),
		Digest:     b.BaseTextDigest(0),
		LayerCount: len(layers),
	}
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		out.Layers = append(out.Layers, LayerDebug{
			Index:         len(layers) - 1 - i,
			SnapshotCount: l.snapshotCount,
			ChangeCount:   l.patch.GetChangeCount(),
			Size:          l.size,
			IsFirst:       l.isFirst,
			IsLast:        l.isLast,
		})
	}
	return out
}

// DebugSnapshotJSON renders DebugSnapshot as JSON, built incrementally with
// sjson so callers can cheaply extend the shape without a struct tag pass.
func (b *Buffer) DebugSnapshotJSON() ([]byte, error) {
	snap := b.DebugSnapshot()
	var err error
	data := []byte("{}")
	data, err = sjson.SetBytes(data, "id", snap.ID)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "base_size", snap.BaseSize)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "digest", snap.Digest)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "layer_count", snap.LayerCount)
	if err != nil {
		return nil, err
	}
	for i, l := range snap.Layers {
		prefix := fmt.Sprintf("layers.%d.", i)
		data, err = sjson.SetBytes(data, prefix+"index", l.Index)
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetBytes(data, prefix+"snapshot_count", l.SnapshotCount)
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetBytes(data, prefix+"change_count", l.ChangeCount)
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetBytes(data, prefix+"size", l.Size)
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetBytes(data, prefix+"is_first", l.IsFirst)
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetBytes(data, prefix+"is_last", l.IsLast)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ParseDebugSnapshotJSON reads back a DebugSnapshot produced by
// DebugSnapshotJSON, for tooling that round-trips introspection output
// across a process boundary rather than holding onto the live Buffer.
func ParseDebugSnapshotJSON(data []byte) (DebugSnapshot, error) {
	if !gjson.ValidBytes(data) {
		return DebugSnapshot{}, fmt.Errorf("buffer: invalid debug snapshot JSON")
	}
	root := gjson.ParseBytes(data)
	snap := DebugSnapshot{
		ID:       root.Get("id").String(),
		BaseSize: uint32(root.Get("base_size").Uint()),
		Digest:   root.Get("digest").Uint(),
	}
	layers := root.Get("layers").Array()
	snap.LayerCount = int(root.Get("layer_count").Int())
	for _, l := range layers {
		snap.Layers = append(snap.Layers, LayerDebug{
			Index:         int(l.Get("index").Int()),
			SnapshotCount: uint32(l.Get("snapshot_count").Uint()),
			ChangeCount:   int(l.Get("change_count").Int()),
			Size:          uint32(l.Get("size").Uint()),
			IsFirst:       l.Get("is_first").Bool(),
			IsLast:        l.Get("is_last").Bool(),
		})
	}
	return snap, nil
}
