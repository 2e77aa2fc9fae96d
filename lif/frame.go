package lif

import (
	"encoding/binary"
	"fmt"
)

// Frame is one extracted 2-D plane. Data holds Width×Height samples in
// row-major order at BytesPerSample bytes each; two-byte samples are
// little-endian. Samples are decoded at the declared bit depth and never
// rescaled, so a 12-bit acquisition yields words in the 0..4095 range.
type Frame struct {
	Width          int
	Height         int
	BytesPerSample int
	Data           []byte
}

// ByteOrder returns the sample byte order of Data.
func (fr *Frame) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

// Samples16 returns the frame's samples widened to uint16, regardless of
// storage width. Equal logical values decode equal whether the channel was
// stored as one or two bytes.
func (fr *Frame) Samples16() []uint16 {
	out := make([]uint16, fr.Width*fr.Height)
	if fr.BytesPerSample == 1 {
		for i, b := range fr.Data {
			out[i] = uint16(b)
		}
		return out
	}
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(fr.Data[i*2:])
	}
	return out
}

// GetPlane extracts the 2-D plane of channel c with every non-plane axis
// fixed by at (axes left out default to position 0). The plane axes are
// the image's declared ones (see PlaneAxes), not necessarily X and Y.
//
// Coordinates outside an axis's declared range fail with ErrOutOfRange.
// Fixing a plane axis, or an image whose first two axes share one axis
// role, fails with ErrUnsupportedPlane. Regions beyond a truncated memory
// block decode as zero-valued samples rather than failing.
func (img *Image) GetPlane(c int, at Coordinate) (*Frame, error) {
	if img.file.closed {
		return nil, ErrClosed
	}
	if c < 0 || c >= img.ChannelCount() {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrOutOfRange, c, img.ChannelCount())
	}
	if len(img.bitDepths) > 0 && img.bitDepths[c] > MaxBitDepth {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedDepth, img.bitDepths[c])
	}
	if len(img.axes) < 2 {
		return nil, fmt.Errorf("%w: image declares %d axes", ErrUnsupportedPlane, len(img.axes))
	}

	plane0, plane1 := img.axes[0], img.axes[1]
	if plane0.Kind == plane1.Kind {
		// Some stage-navigator captures declare two axes with the same
		// role; there is no defined ordering to pick from.
		return nil, fmt.Errorf("%w: duplicate %s plane axes", ErrUnsupportedPlane, plane0.Kind)
	}

	offset, err := img.planeOffset(c, at)
	if err != nil {
		return nil, err
	}

	return img.readPlane(plane0, plane1, offset)
}

// GetFrame extracts the XY plane at position (z, t, m) of channel c. It is
// the common-case shorthand for images whose declared plane axes are X
// then Y; use GetPlane for anything else.
func (img *Image) GetFrame(z, t, c, m int) (*Frame, error) {
	if len(img.axes) >= 2 && (img.axes[0].Kind != AxisX || img.axes[1].Kind != AxisY) {
		return nil, fmt.Errorf("%w: plane axes are %s%s, use GetPlane",
			ErrUnsupportedPlane, img.axes[0].Kind, img.axes[1].Kind)
	}
	return img.GetPlane(c, Coordinate{AxisZ: z, AxisT: t, AxisM: m})
}

// planeOffset validates the fixed coordinates and computes the byte offset
// of the plane's first sample within the memory block, channel included.
func (img *Image) planeOffset(c int, at Coordinate) (int64, error) {
	plane0, plane1 := img.axes[0].Kind, img.axes[1].Kind

	for kind, pos := range at {
		if kind == plane0 || kind == plane1 {
			if pos != 0 {
				return 0, fmt.Errorf("%w: cannot fix plane axis %s", ErrUnsupportedPlane, kind)
			}
			continue
		}
		if _, ok := img.axis(kind); !ok && pos != 0 {
			return 0, fmt.Errorf("%w: image has no %s axis", ErrOutOfRange, kind)
		}
	}

	var offset int64
	for _, ax := range img.axes[2:] {
		pos := at[ax.Kind]
		if pos < 0 || pos >= ax.Len {
			return 0, fmt.Errorf("%w: %s=%d, axis length %d", ErrOutOfRange, ax.Kind, pos, ax.Len)
		}
		offset += int64(pos) * ax.BytesInc
	}

	if c < len(img.desc.Channels) {
		offset += img.desc.Channels[c].BytesInc
	}
	return offset, nil
}

// readPlane reads Width×Height samples starting at the given offset into
// the memory block, honoring both axes' byte increments. Bytes past the
// stored end of a truncated block stay zero.
func (img *Image) readPlane(plane0, plane1 AxisInfo, offset int64) (*Frame, error) {
	if img.block == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingBlock, img.QualifiedName())
	}

	w, h := plane0.Len, plane1.Len
	bps := img.bytesPerSample
	out := make([]byte, w*h*bps)

	start := img.block.Offset + offset
	limit := img.block.Offset + img.block.Stored

	if plane0.BytesInc == int64(bps) {
		// Contiguous rows: one clamped read per row.
		rowBytes := w * bps
		for j := 0; j < h; j++ {
			row, err := img.file.rd.ReadClamped(start+int64(j)*plane1.BytesInc, rowBytes, limit)
			if err != nil {
				return nil, fmt.Errorf("reading plane row %d: %w", j, err)
			}
			copy(out[j*rowBytes:], row)
		}
		return &Frame{Width: w, Height: h, BytesPerSample: bps, Data: out}, nil
	}

	// Strided samples (interleaved channels): read each row's span once
	// and gather every BytesInc'th sample.
	span := int(plane0.BytesInc)*(w-1) + bps
	for j := 0; j < h; j++ {
		row, err := img.file.rd.ReadClamped(start+int64(j)*plane1.BytesInc, span, limit)
		if err != nil {
			return nil, fmt.Errorf("reading plane row %d: %w", j, err)
		}
		for i := 0; i < w; i++ {
			src := int64(i) * plane0.BytesInc
			dst := (j*w + i) * bps
			copy(out[dst:dst+bps], row[src:])
		}
	}
	return &Frame{Width: w, Height: h, BytesPerSample: bps, Data: out}, nil
}
