// Package lif provides a pure Go reader for Leica Image Format (LIF) files.
//
// A LIF file holds one XML metadata block describing a tree of folders and
// images, followed by raw pixel memory blocks referenced by that metadata.
// The tree is parsed once at open time and is immutable afterwards; pixel
// data is read lazily per frame. All reads are positioned (io.ReaderAt),
// so concurrent frame extraction from multiple goroutines is safe.
package lif

import "errors"

// Common errors
var (
	ErrNotLIF           = errors.New("not a LIF file")
	ErrMetadata         = errors.New("invalid LIF metadata")
	ErrMissingBlock     = errors.New("no memory block for image")
	ErrOutOfRange       = errors.New("coordinate out of range")
	ErrUnsupportedPlane = errors.New("unsupported plane orientation")
	ErrUnsupportedDepth = errors.New("unsupported bit depth")
	ErrClosed           = errors.New("file is closed")
)

// MaxBitDepth is the highest per-channel bit depth the extractor decodes.
// Deeper channels fail with ErrUnsupportedDepth rather than truncating
// silently.
const MaxBitDepth = 16
