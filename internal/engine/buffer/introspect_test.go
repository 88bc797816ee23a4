package buffer

import (
	"testing"

	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

func TestDebugSnapshotJSONRoundTrip(t *testing.T) {
	b := NewFromText(text.FromString("hello world"))
	b.SetTextInRange(point.NewRange(point.New(0, 6), point.New(0, 11)), text.FromString("there"))
	snap := b.CreateSnapshot()
	defer snap.Release()

	data, err := b.DebugSnapshotJSON()
	if err != nil {
		t.Fatalf("DebugSnapshotJSON returned error: %v", err)
	}

	got, err := ParseDebugSnapshotJSON(data)
	if err != nil {
		t.Fatalf("ParseDebugSnapshotJSON returned error: %v", err)
	}

	want := b.DebugSnapshot()
	if got.ID != want.ID {
		t.Fatalf("ID = %q, want %q", got.ID, want.ID)
	}
	if got.BaseSize != want.BaseSize {
		t.Fatalf("BaseSize = %d, want %d", got.BaseSize, want.BaseSize)
	}
	if got.Digest != want.Digest {
		t.Fatalf("Digest = %d, want %d", got.Digest, want.Digest)
	}
	if got.LayerCount != want.LayerCount {
		t.Fatalf("LayerCount = %d, want %d", got.LayerCount, want.LayerCount)
	}
	if len(got.Layers) != len(want.Layers) {
		t.Fatalf("len(Layers) = %d, want %d", len(got.Layers), len(want.Layers))
	}
	for i := range want.Layers {
		if got.Layers[i] != want.Layers[i] {
			t.Fatalf("Layers[%d] = %+v, want %+v", i, got.Layers[i], want.Layers[i])
		}
	}
}

func TestParseDebugSnapshotJSONRejectsMalformedInput(t *testing.T) {
	if _, err := ParseDebugSnapshotJSON([]byte("not json")); err == nil {
		t.Fatalf("ParseDebugSnapshotJSON accepted malformed input")
	}
}
