package lif

import (
	"time"

	"github.com/robert-malhotra/go-lif/internal/container"
	"github.com/robert-malhotra/go-lif/internal/meta"
)

// Image is one image of the acquisition tree together with its derived
// index: resolved memory block, axis list, bit depths, expected pixel size
// and truncation state. All of it is computed once at open time from the
// immutable metadata, so an Image is safe for concurrent use.
type Image struct {
	file *File
	desc *meta.Image

	block          *container.Block // nil when the metadata reference resolved to no block
	axes           []AxisInfo
	tiles          []Tile
	bitDepths      []int
	bytesPerSample int
	expectedSize   int64
	truncated      bool
	interleaved    bool
}

func newImage(f *File, desc *meta.Image) *Image {
	img := &Image{file: f, desc: desc}

	for _, d := range desc.Dimensions {
		img.axes = append(img.axes, AxisInfo{
			Kind:     Axis(d.DimID),
			Len:      d.Elements,
			Length:   d.Length,
			Unit:     d.Unit,
			BytesInc: d.BytesInc,
		})
	}

	img.bytesPerSample = 1
	for _, c := range desc.Channels {
		img.bitDepths = append(img.bitDepths, c.Resolution)
		if c.Resolution > 8 {
			img.bytesPerSample = 2
		}
	}

	// Legacy metadata carries no block identifiers; those files reference
	// blocks by position in scan order.
	if desc.MemoryID != "" {
		img.block, _ = f.container.Block(desc.MemoryID)
	} else {
		img.block, _ = f.container.BlockAt(desc.Ordinal)
	}

	channels := len(desc.Channels)
	if channels == 0 {
		channels = 1
	}
	size := int64(channels) * int64(img.bytesPerSample)
	for _, ax := range img.axes {
		if ax.Len > 0 {
			size *= int64(ax.Len)
		}
	}
	img.expectedSize = size
	if img.block != nil && size > img.block.Stored {
		img.truncated = true
	}

	if len(desc.Channels) > 1 {
		gap := desc.Channels[1].BytesInc - desc.Channels[0].BytesInc
		img.interleaved = gap == int64(img.bytesPerSample)
	}

	for _, t := range desc.Tiles {
		img.tiles = append(img.tiles, Tile{FieldX: t.FieldX, FieldY: t.FieldY, PosX: t.PosX, PosY: t.PosY})
	}

	return img
}

// Name returns the image's own name.
func (img *Image) Name() string {
	return img.desc.Name
}

// Path returns the folder path prefix, ending with "/" (empty at the root).
func (img *Image) Path() string {
	return img.desc.Path
}

// QualifiedName returns the display name disambiguated by folder path,
// e.g. "Project/Region 1/Series003".
func (img *Image) QualifiedName() string {
	return img.desc.QualifiedName()
}

// Axes returns the declared axes in file order. The returned slice is
// shared; callers must not modify it.
func (img *Image) Axes() []AxisInfo {
	return img.axes
}

// AxisLen returns the element count along the given axis, or 0 when the
// axis is absent.
func (img *Image) AxisLen(a Axis) int {
	if info, ok := img.axis(a); ok {
		return info.Len
	}
	return 0
}

func (img *Image) axis(a Axis) (AxisInfo, bool) {
	for _, info := range img.axes {
		if info.Kind == a {
			return info, true
		}
	}
	return AxisInfo{}, false
}

// Dims returns the canonical element counts. Absent axes report 1,
// following the acquisition software's convention.
func (img *Image) Dims() Dims {
	orOne := func(n int) int {
		if n == 0 {
			return 1
		}
		return n
	}
	return Dims{
		X: orOne(img.AxisLen(AxisX)),
		Y: orOne(img.AxisLen(AxisY)),
		Z: orOne(img.AxisLen(AxisZ)),
		T: orOne(img.AxisLen(AxisT)),
		M: orOne(img.AxisLen(AxisM)),
	}
}

// ChannelCount returns the number of channels (at least 1).
func (img *Image) ChannelCount() int {
	if len(img.bitDepths) == 0 {
		return 1
	}
	return len(img.bitDepths)
}

// BitDepths returns the declared bit depth per channel, in channel order.
func (img *Image) BitDepths() []int {
	return img.bitDepths
}

// BytesPerSample returns the storage width of one decoded sample: 1 for
// depths up to 8 bits, 2 for 9 to 16 bits.
func (img *Image) BytesPerSample() int {
	return img.bytesPerSample
}

// Interleaved reports whether channel samples are interleaved per pixel
// rather than stored as separate planes.
func (img *Image) Interleaved() bool {
	return img.interleaved
}

// Scale returns the sampling scale for an axis: samples per micrometer for
// X, Y and Z, frames per second for T. It is 0 when the axis is absent or
// its physical length is zero, never a division fault.
func (img *Image) Scale(a Axis) float64 {
	info, ok := img.axis(a)
	if !ok || info.Length == 0 {
		return 0
	}
	switch a {
	case AxisX, AxisY:
		return float64(info.Len-1) / (info.Length * 1e6)
	case AxisZ:
		return float64(info.Len) / (info.Length * 1e6)
	case AxisT:
		return float64(info.Len) / info.Length
	default:
		return 0
	}
}

// Truncated reports whether the metadata declares more pixel bytes than
// the memory block actually holds. Frames over the missing region decode
// as zero-valued samples.
func (img *Image) Truncated() bool {
	return img.truncated
}

// ExpectedSize returns the pixel byte count the metadata declares for this
// image.
func (img *Image) ExpectedSize() int64 {
	return img.expectedSize
}

// MemoryBlockID returns the identifier of the referenced memory block, or
// "" for legacy files that reference blocks by position.
func (img *Image) MemoryBlockID() string {
	return img.desc.MemoryID
}

// Timestamps returns the per-plane acquisition times, or nil when the
// image has none.
func (img *Image) Timestamps() []time.Time {
	return img.desc.Timestamps
}

// Settings returns the acquisition hardware settings attached to the
// image, or nil when none were recorded.
func (img *Image) Settings() map[string]string {
	return img.desc.Settings
}

// StageNavigator reports whether the image was written by the
// stage-navigator extension.
func (img *Image) StageNavigator() bool {
	return img.desc.StageNavigator
}

// PlaneAxes returns the two axes that form the image's natural 2-D slice:
// the first two axes in declaration order. These are usually X and Y but
// some captures are natively XZ or axis-swapped. ok is false when the
// image declares fewer than two axes.
func (img *Image) PlaneAxes() (a0, a1 Axis, ok bool) {
	if len(img.axes) < 2 {
		return 0, 0, false
	}
	return img.axes[0].Kind, img.axes[1].Kind, true
}
