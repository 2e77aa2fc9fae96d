package lif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFrameRoundTrip(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	// Every (t, z, c) plane must map to a disjoint contiguous 12 byte
	// range, and together they must cover the block exactly once.
	covered := make([]bool, 96)
	for tt := 0; tt < 2; tt++ {
		for z := 0; z < 2; z++ {
			for c := 0; c < 2; c++ {
				fr, err := img.GetFrame(z, tt, c, 0)
				require.NoError(t, err)
				require.Equal(t, 4, fr.Width)
				require.Equal(t, 3, fr.Height)
				require.Equal(t, 1, fr.BytesPerSample)

				start := tt*48 + z*24 + c*12
				require.Equal(t, counting(96)[start:start+12], fr.Data,
					"plane t=%d z=%d c=%d", tt, z, c)
				for i := start; i < start+12; i++ {
					require.False(t, covered[i], "byte %d read twice", i)
					covered[i] = true
				}
			}
		}
	}
	for i, seen := range covered {
		require.True(t, seen, "byte %d never read", i)
	}
}

func TestTruncationTolerance(t *testing.T) {
	raw := buildLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	raw = raw[:len(raw)-56] // only 40 of 96 pixel bytes survive

	f, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	img := f.Images()[0]
	require.True(t, img.Truncated())

	// Fully missing plane: expected size, all zero.
	fr, err := img.GetFrame(1, 1, 1, 0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 12), fr.Data)

	// Fully present plane: unchanged.
	fr, err = img.GetFrame(0, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, counting(12), fr.Data)

	// Plane straddling the cut at byte 40: real data then zeros.
	fr, err = img.GetFrame(1, 0, 1, 0)
	require.NoError(t, err)
	want := make([]byte, 12)
	copy(want, counting(96)[36:40])
	require.Equal(t, want, fr.Data)
}

func TestBoundsChecking(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	// Maximum valid coordinate succeeds on every axis.
	_, err := img.GetFrame(1, 1, 1, 0)
	require.NoError(t, err)

	for _, bad := range []struct{ z, t, c, m int }{
		{2, 0, 0, 0},
		{-1, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 2, 0},
		{0, 0, -1, 0},
		{0, 0, 0, 1}, // no tile axis
	} {
		_, err := img.GetFrame(bad.z, bad.t, bad.c, bad.m)
		require.ErrorIs(t, err, ErrOutOfRange, "coordinate %+v", bad)
	}

	// Fixing a plane axis is a capability error, not a bounds error.
	_, err = img.GetPlane(0, Coordinate{AxisX: 1})
	require.ErrorIs(t, err, ErrUnsupportedPlane)
	_, err = img.GetPlane(0, Coordinate{AxisX: 0, AxisZ: 1})
	require.NoError(t, err)
}

func TestAxisOrderIndependence(t *testing.T) {
	image := func(dims string) string {
		return fmt.Sprintf(`<Element Name="Series">
		  <Memory Size="48" MemoryBlockID="MemBlock_0"/>
		  <Data><Image><ImageDescription>
		    <Dimensions>%s</Dimensions>
		    <Channels><ChannelDescription Resolution="8"/></Channels>
		  </ImageDescription></Image></Data>
		</Element>`, dims)
	}
	dim := func(id, n int, inc int) string {
		return fmt.Sprintf(`<DimensionDescription DimID="%d" NumberOfElements="%d" BytesInc="%d"/>`, id, n, inc)
	}

	x, y := dim(1, 4, 1), dim(2, 3, 4)
	z, tt := dim(3, 2, 12), dim(4, 2, 24)
	data := counting(48)

	// Same logical image, free axes declared Z,T versus T,Z.
	a := openLIF(t, wrapXML("2", image(x+y+z+tt)), memBlock{"MemBlock_0", data})
	b := openLIF(t, wrapXML("2", image(x+y+tt+z)), memBlock{"MemBlock_0", data})

	for zi := 0; zi < 2; zi++ {
		for ti := 0; ti < 2; ti++ {
			at := Coordinate{AxisZ: zi, AxisT: ti}
			fa, err := a.Images()[0].GetPlane(0, at)
			require.NoError(t, err)
			fb, err := b.Images()[0].GetPlane(0, at)
			require.NoError(t, err)
			require.Equal(t, fa.Data, fb.Data, "z=%d t=%d", zi, ti)
		}
	}
}

func TestBitDepthDecoding(t *testing.T) {
	image := func(resolution, xInc, yInc, size int) string {
		return fmt.Sprintf(`<Element Name="Series">
		  <Memory Size="%d" MemoryBlockID="MemBlock_0"/>
		  <Data><Image><ImageDescription>
		    <Dimensions>
		      <DimensionDescription DimID="1" NumberOfElements="2" BytesInc="%d"/>
		      <DimensionDescription DimID="2" NumberOfElements="2" BytesInc="%d"/>
		    </Dimensions>
		    <Channels><ChannelDescription Resolution="%d"/></Channels>
		  </ImageDescription></Image></Data>
		</Element>`, size, xInc, yInc, resolution)
	}

	values := []uint16{10, 500, 3000, 4095}
	wide := make([]byte, 8)
	for i, v := range values {
		binary.LittleEndian.PutUint16(wide[i*2:], v)
	}

	f12 := openLIF(t, wrapXML("2", image(12, 2, 4, 8)), memBlock{"MemBlock_0", wide})
	img12 := f12.Images()[0]
	require.Equal(t, 2, img12.BytesPerSample())

	fr12, err := img12.GetFrame(0, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, values, fr12.Samples16())

	// An 8-bit channel with the same logical values decodes equal in the
	// common width.
	f8 := openLIF(t, wrapXML("2", image(8, 1, 2, 4)), memBlock{"MemBlock_0", []byte{10, 20, 30, 40}})
	fr8, err := f8.Images()[0].GetFrame(0, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []uint16{10, 20, 30, 40}, fr8.Samples16())
	require.Equal(t, []byte{10, 20, 30, 40}, fr8.Data)
}

func TestUnsupportedBitDepth(t *testing.T) {
	xml := wrapXML("2", `<Element Name="Deep">
	  <Memory Size="16" MemoryBlockID="MemBlock_0"/>
	  <Data><Image><ImageDescription>
	    <Dimensions>
	      <DimensionDescription DimID="1" NumberOfElements="2" BytesInc="4"/>
	      <DimensionDescription DimID="2" NumberOfElements="2" BytesInc="8"/>
	    </Dimensions>
	    <Channels><ChannelDescription Resolution="32"/></Channels>
	  </ImageDescription></Image></Data>
	</Element>`)

	f := openLIF(t, xml, memBlock{"MemBlock_0", counting(16)})
	_, err := f.Images()[0].GetFrame(0, 0, 0, 0)
	require.ErrorIs(t, err, ErrUnsupportedDepth)
}

func TestNativeXZPlane(t *testing.T) {
	xml := wrapXML("2", `<Element Name="XZScan">
	  <Memory Size="8" MemoryBlockID="MemBlock_0"/>
	  <Data><Image><ImageDescription>
	    <Dimensions>
	      <DimensionDescription DimID="1" NumberOfElements="4" BytesInc="1"/>
	      <DimensionDescription DimID="3" NumberOfElements="2" BytesInc="4"/>
	    </Dimensions>
	    <Channels><ChannelDescription Resolution="8"/></Channels>
	  </ImageDescription></Image></Data>
	</Element>`)

	f := openLIF(t, xml, memBlock{"MemBlock_0", counting(8)})
	img := f.Images()[0]

	a0, a1, ok := img.PlaneAxes()
	require.True(t, ok)
	require.Equal(t, AxisX, a0)
	require.Equal(t, AxisZ, a1)

	// GetFrame insists on XY; the declared-plane path works.
	_, err := img.GetFrame(0, 0, 0, 0)
	require.ErrorIs(t, err, ErrUnsupportedPlane)

	fr, err := img.GetPlane(0, nil)
	require.NoError(t, err)
	require.Equal(t, 4, fr.Width)
	require.Equal(t, 2, fr.Height)
	require.Equal(t, counting(8), fr.Data)
}

func TestDuplicatePlaneAxes(t *testing.T) {
	xml := wrapXML("2", `<Element Name="Odd">
	  <Memory Size="16" MemoryBlockID="MemBlock_0"/>
	  <Data><Image><ImageDescription>
	    <Dimensions>
	      <DimensionDescription DimID="1" NumberOfElements="4" BytesInc="1"/>
	      <DimensionDescription DimID="1" NumberOfElements="4" BytesInc="4"/>
	    </Dimensions>
	    <Channels><ChannelDescription Resolution="8"/></Channels>
	  </ImageDescription></Image></Data>
	</Element>`)

	f := openLIF(t, xml, memBlock{"MemBlock_0", counting(16)})
	_, err := f.Images()[0].GetPlane(0, nil)
	require.ErrorIs(t, err, ErrUnsupportedPlane)
}

func TestInterleavedChannels(t *testing.T) {
	xml := wrapXML("2", `<Element Name="RGB">
	  <Memory Size="12" MemoryBlockID="MemBlock_0"/>
	  <Data><Image><ImageDescription>
	    <Dimensions>
	      <DimensionDescription DimID="1" NumberOfElements="3" BytesInc="2"/>
	      <DimensionDescription DimID="2" NumberOfElements="2" BytesInc="6"/>
	    </Dimensions>
	    <Channels>
	      <ChannelDescription Resolution="8" BytesInc="0"/>
	      <ChannelDescription Resolution="8" BytesInc="1"/>
	    </Channels>
	  </ImageDescription></Image></Data>
	</Element>`)

	f := openLIF(t, xml, memBlock{"MemBlock_0", counting(12)})
	img := f.Images()[0]
	require.True(t, img.Interleaved())

	fr0, err := img.GetPlane(0, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 2, 4, 6, 8, 10}, fr0.Data)

	fr1, err := img.GetPlane(1, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 3, 5, 7, 9, 11}, fr1.Data)
}
