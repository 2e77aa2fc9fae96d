package lif

import "iter"

// IterFrames returns a restartable sequence of planes along one free axis,
// in ascending coordinate order, with the remaining free axes held at
// fixed. Absent axes yield a single plane, matching the acquisition
// software's convention of treating missing dimensions as length 1.
//
// The sequence is a thin layer over GetPlane: it carries no state beyond
// the current coordinate, and ranging over it a second time replays the
// same planes. Iteration stops after the first error.
func (img *Image) IterFrames(along Axis, c int, fixed Coordinate) iter.Seq2[*Frame, error] {
	return func(yield func(*Frame, error) bool) {
		n := img.AxisLen(along)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			at := make(Coordinate, len(fixed)+1)
			for k, v := range fixed {
				at[k] = v
			}
			at[along] = i
			fr, err := img.GetPlane(c, at)
			if !yield(fr, err) || err != nil {
				return
			}
		}
	}
}

// IterZ iterates the z series at time t, channel c and tile m.
func (img *Image) IterZ(t, c, m int) iter.Seq2[*Frame, error] {
	return img.IterFrames(AxisZ, c, Coordinate{AxisT: t, AxisM: m})
}

// IterT iterates over time at position z, channel c and tile m.
func (img *Image) IterT(z, c, m int) iter.Seq2[*Frame, error] {
	return img.IterFrames(AxisT, c, Coordinate{AxisZ: z, AxisM: m})
}

// IterM iterates over mosaic tiles at position z, time t and channel c.
func (img *Image) IterM(z, t, c int) iter.Seq2[*Frame, error] {
	return img.IterFrames(AxisM, c, Coordinate{AxisZ: z, AxisT: t})
}

// IterC iterates over the channels at position z, time t and tile m.
func (img *Image) IterC(z, t, m int) iter.Seq2[*Frame, error] {
	return func(yield func(*Frame, error) bool) {
		at := Coordinate{AxisZ: z, AxisT: t, AxisM: m}
		for c := 0; c < img.ChannelCount(); c++ {
			fr, err := img.GetPlane(c, at)
			if !yield(fr, err) || err != nil {
				return
			}
		}
	}
}
