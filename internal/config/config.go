// Package config provides a TOML-loadable settings layer for the buffer
// engine, mirroring the teacher's buffer.Option functional-option pattern
// (internal/engine/buffer's WithLineEnding/WithTabWidth) but for the
// handful of knobs that sit above the engine itself: digest seeding,
// grapheme-cluster clipping, and the defaults a demo command wants to load
// from a config file rather than hardcode.
package config

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/inkwell/inkwell/internal/engine/buffer"
)

// Options holds the resolved settings for a Buffer, assembled from
// defaults, an optional TOML file, and functional Option overrides.
type Options struct {
	LineEnding       buffer.LineEnding `toml:"-"`
	LineEndingName   string            `toml:"line_ending"`
	TabWidth         int               `toml:"tab_width"`
	DigestSeed       uint64            `toml:"digest_seed"`
	GraphemeClipping bool              `toml:"grapheme_clipping"`
}

// Option mutates an in-progress Options value.
type Option func(*Options)

// Default returns the baseline settings every Buffer starts from absent
// an explicit config file or override.
func Default() Options {
	return Options{
		LineEnding:       buffer.LineEndingLF,
		LineEndingName:   "lf",
		TabWidth:         4,
		DigestSeed:       0,
		GraphemeClipping: true,
	}
}

// WithLineEnding overrides the line-ending style.
func WithLineEnding(le buffer.LineEnding) Option {
	return func(o *Options) { o.LineEnding = le }
}

// WithTabWidth overrides the tab width. Non-positive values are ignored.
func WithTabWidth(width int) Option {
	return func(o *Options) {
		if width > 0 {
			o.TabWidth = width
		}
	}
}

// WithDigestSeed overrides the seed passed to Buffer.BaseTextDigest.
func WithDigestSeed(seed uint64) Option {
	return func(o *Options) { o.DigestSeed = seed }
}

// WithGraphemeClipping toggles grapheme-cluster-aware snapping in
// ClipPosition. Disabling it snaps only to code-unit boundaries.
func WithGraphemeClipping(enabled bool) Option {
	return func(o *Options) { o.GraphemeClipping = enabled }
}

// Load reads a TOML config file from path and applies opts on top of it,
// returning the fully resolved Options.
func Load(path string, opts ...Option) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return Decode(f, opts...)
}

// Decode reads TOML config from r and applies opts on top of it.
func Decode(r io.Reader, opts ...Option) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Options{}, err
	}
	o := Default()
	if err := toml.Unmarshal(data, &o); err != nil {
		return Options{}, err
	}
	o.LineEnding = lineEndingFromName(o.LineEndingName)
	for _, opt := range opts {
		opt(&o)
	}
	return o, nil
}

// BufferOptions translates the resolved Options into buffer.Option values
// usable with buffer.New/buffer.NewFromText.
func (o Options) BufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithGraphemeClipping(o.GraphemeClipping),
		buffer.WithLineEnding(o.LineEnding),
		buffer.WithTabWidth(o.TabWidth),
		buffer.WithDigestSeed(o.DigestSeed),
	}
}

func lineEndingFromName(name string) buffer.LineEnding {
	switch name {
	case "crlf":
		return buffer.LineEndingCRLF
	case "none":
		return buffer.LineEndingNone
	default:
		return buffer.LineEndingLF
	}
}
