package lif

import "fmt"

// Tile is one entry of a mosaic acquisition: the tile's field indices on
// the mosaic grid and its stage position in meters. Stage positions are
// physical coordinates of the stage itself, independent of the per-pixel
// scale.
type Tile struct {
	FieldX, FieldY int
	PosX, PosY     float64
}

// Mosaic returns the per-tile descriptor list in tile-axis order, or nil
// when the image is not a mosaic. The returned slice is shared; callers
// must not modify it.
func (img *Image) Mosaic() []Tile {
	return img.tiles
}

// IsMosaic reports whether the image carries a tile scan descriptor.
func (img *Image) IsMosaic() bool {
	return len(img.desc.Tiles) > 0
}

// TilePosition returns the field indices and stage position of tile m.
// ok is false when the image is not a mosaic. A tile index outside the
// descriptor list fails with ErrOutOfRange.
func (img *Image) TilePosition(m int) (tile Tile, ok bool, err error) {
	tiles := img.Mosaic()
	if tiles == nil {
		return Tile{}, false, nil
	}
	if m < 0 || m >= len(tiles) {
		return Tile{}, false, fmt.Errorf("%w: tile %d of %d", ErrOutOfRange, m, len(tiles))
	}
	return tiles[m], true, nil
}
