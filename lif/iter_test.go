package lif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterZ(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	var got [][]byte
	for fr, err := range img.IterZ(1, 0, 0) {
		require.NoError(t, err)
		got = append(got, fr.Data)
	}
	require.Len(t, got, 2)
	require.Equal(t, counting(96)[48:60], got[0])
	require.Equal(t, counting(96)[72:84], got[1])

	// The sequence is restartable.
	n := 0
	for _, err := range img.IterZ(1, 0, 0) {
		require.NoError(t, err)
		n++
	}
	require.Equal(t, 2, n)
}

func TestIterZStack(t *testing.T) {
	xml := wrapXML("2", `<Element Name="Stack">
	  <Memory Size="20" MemoryBlockID="MemBlock_0"/>
	  <Data><Image><ImageDescription>
	    <Dimensions>
	      <DimensionDescription DimID="1" NumberOfElements="2" BytesInc="1"/>
	      <DimensionDescription DimID="2" NumberOfElements="2" BytesInc="2"/>
	      <DimensionDescription DimID="3" NumberOfElements="5" BytesInc="4"/>
	    </Dimensions>
	    <Channels><ChannelDescription Resolution="8"/></Channels>
	  </ImageDescription></Image></Data>
	</Element>`)

	f := openLIF(t, xml, memBlock{"MemBlock_0", counting(20)})
	img := f.Images()[0]

	collect := func() [][]byte {
		var out [][]byte
		for fr, err := range img.IterZ(0, 0, 0) {
			require.NoError(t, err)
			out = append(out, fr.Data)
		}
		return out
	}

	// Five slices in ascending z order, each its own 4 byte window.
	first := collect()
	require.Len(t, first, 5)
	for z, data := range first {
		require.Equal(t, counting(20)[z*4:z*4+4], data, "slice z=%d", z)
	}

	// Ranging again replays the same slices.
	require.Equal(t, first, collect())
}

func TestIterC(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	var got [][]byte
	for fr, err := range img.IterC(1, 1, 0) {
		require.NoError(t, err)
		got = append(got, fr.Data)
	}
	require.Len(t, got, 2)
	require.Equal(t, counting(96)[72:84], got[0])
	require.Equal(t, counting(96)[84:96], got[1])
}

func TestIterAbsentAxis(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	// No tile axis: the mosaic sequence degenerates to a single frame.
	n := 0
	for fr, err := range img.IterM(0, 0, 0) {
		require.NoError(t, err)
		require.Equal(t, counting(12), fr.Data)
		n++
	}
	require.Equal(t, 1, n)
}

func TestIterEarlyStop(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	n := 0
	for _, err := range img.IterT(0, 0, 0) {
		require.NoError(t, err)
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestIterError(t *testing.T) {
	f := openLIF(t, wrapXML("2", xyztImageXML), memBlock{"MemBlock_0", counting(96)})
	img := f.Images()[0]

	// An out of range fixed coordinate surfaces on the first yield and
	// ends the sequence.
	n := 0
	var last error
	for _, err := range img.IterZ(5, 0, 0) {
		last = err
		n++
	}
	require.Equal(t, 1, n)
	require.ErrorIs(t, last, ErrOutOfRange)
}
