package lif

import "strconv"

// Axis identifies one dimension of an image. The numeric values are the
// DimID tags of the vendor metadata schema, which is also how axes are
// recognized in the file: by tag, never by declaration order.
type Axis int

const (
	AxisX Axis = 1
	AxisY Axis = 2
	AxisZ Axis = 3
	AxisT Axis = 4
	AxisM Axis = 10 // mosaic tile index
)

// String returns the conventional single-letter axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	case AxisT:
		return "T"
	case AxisM:
		return "M"
	default:
		return "Dim" + strconv.Itoa(int(a))
	}
}

// AxisInfo describes one declared axis of an image.
type AxisInfo struct {
	// Kind is the axis tag. Axes beyond the known set are carried
	// through with their raw DimID value.
	Kind Axis

	// Len is the element count along this axis.
	Len int

	// Length is the declared physical extent: meters for spatial axes,
	// seconds for the time axis.
	Length float64

	// Unit is the declared physical unit, when present.
	Unit string

	// BytesInc is the byte stride between consecutive samples along this
	// axis within the memory block.
	BytesInc int64
}

// Dims holds the canonical element counts of an image. Absent axes report 1,
// matching the convention of the acquisition software.
type Dims struct {
	X, Y, Z, T, M int
}

// Coordinate fixes positions along non-plane axes for frame extraction.
// Axes left out default to position 0.
type Coordinate map[Axis]int
