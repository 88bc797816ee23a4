package config

import (
	"strings"
	"testing"

	"github.com/inkwell/inkwell/internal/engine/buffer"
	"github.com/inkwell/inkwell/internal/engine/point"
	"github.com/inkwell/inkwell/internal/engine/text"
)

func TestDefaultOptions(t *testing.T) {
	o := Default()
	if o.TabWidth != 4 {
		t.Fatalf("TabWidth = %d, want 4", o.TabWidth)
	}
	if !o.GraphemeClipping {
		t.Fatalf("GraphemeClipping default = false, want true")
	}
	if o.LineEnding != buffer.LineEndingLF {
		t.Fatalf("LineEnding default = %v, want LineEndingLF", o.LineEnding)
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := strings.NewReader(`
tab_width = 8
line_ending = "crlf"
digest_seed = 42
grapheme_clipping = false
`)
	o, err := Decode(src)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if o.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", o.TabWidth)
	}
	if o.LineEnding != buffer.LineEndingCRLF {
		t.Fatalf("LineEnding = %v, want LineEndingCRLF", o.LineEnding)
	}
	if o.DigestSeed != 42 {
		t.Fatalf("DigestSeed = %d, want 42", o.DigestSeed)
	}
	if o.GraphemeClipping {
		t.Fatalf("GraphemeClipping = true, want false")
	}
}

func TestDecodeAppliesOptionOverridesOnTopOfFile(t *testing.T) {
	src := strings.NewReader(`tab_width = 8`)
	o, err := Decode(src, WithTabWidth(2))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if o.TabWidth != 2 {
		t.Fatalf("TabWidth = %d, want 2 (option should win over file)", o.TabWidth)
	}
}

func TestBufferOptionsWiresGraphemeClipping(t *testing.T) {
	o := Default()
	o.GraphemeClipping = false
	opts := o.BufferOptions()
	b := buffer.New(opts...)
	// A buffer constructed with grapheme clipping disabled should clip a
	// position inside a surrogate pair to the raw code-unit boundary rather
	// than snapping outward to the pair's start.
	b.SetText(text.FromString("a\U0001F600b"))
	cr := b.ClipPosition(point.New(0, 2))
	if cr.Position.Column != 2 {
		t.Fatalf("clip column = %d, want 2 (no grapheme snap)", cr.Position.Column)
	}
}

func TestBufferOptionsWiresTabWidthAndDigestSeed(t *testing.T) {
	o := Default()
	o.TabWidth = 2
	o.DigestSeed = 7
	b := buffer.New(o.BufferOptions()...)

	if b.TabWidth() != 2 {
		t.Fatalf("TabWidth = %d, want 2", b.TabWidth())
	}
	if got, want := b.Digest(), b.BaseTextDigest(7); got != want {
		t.Fatalf("Digest() = %d, want BaseTextDigest(7) = %d", got, want)
	}
}

func TestBufferOptionsWiresLineEndingNormalization(t *testing.T) {
	o := Default()
	o.LineEnding = buffer.LineEndingCRLF
	b := buffer.NewFromText(text.FromString("a\nb\r\nc"), o.BufferOptions()...)

	if got, want := b.Text().String(), "a\r\nb\r\nc"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if b.LineEnding() != buffer.LineEndingCRLF {
		t.Fatalf("LineEnding() = %v, want LineEndingCRLF", b.LineEnding())
	}
}
