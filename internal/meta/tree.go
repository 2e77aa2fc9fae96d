// Package meta builds the acquisition tree from the LIF metadata text.
//
// The decoded XML describes a hierarchy of folders and images. Build parses
// it once into immutable Folder and Image descriptors with all schema
// variants normalized away: axis descriptors are recognized by DimID tag
// (never by position), legacy files without memory block identifiers are
// marked for ordinal block resolution, and both timestamp layouts decode to
// the same time.Time list. Downstream packages never see the raw XML.
package meta

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dimension IDs used by the vendor schema.
const (
	DimX    = 1
	DimY    = 2
	DimZ    = 3
	DimT    = 4
	DimTile = 10
)

// Schema identifies the metadata layout variant, resolved once at build
// time from the container header version.
type Schema int

const (
	// SchemaLegacy is the Version="1" layout: no memory block identifiers
	// (blocks resolve by scan order), per-plane TimeStamp child elements.
	SchemaLegacy Schema = iota + 1
	// SchemaCurrent is the Version="2" layout with memory block
	// identifiers, character-data timestamp lists, and optional
	// stage-navigator attachments.
	SchemaCurrent
)

// Dimension describes one axis of an image, in file declaration order.
type Dimension struct {
	DimID    int     // axis kind tag (DimX..DimTile; other values carried as-is)
	Elements int     // sample count along this axis
	Origin   float64 // physical origin
	Length   float64 // physical extent: meters for spatial axes, seconds for time
	Unit     string
	BytesInc int64 // byte stride between consecutive samples along this axis
}

// Channel describes one acquisition channel.
type Channel struct {
	Index      int   // zero-based channel order
	Resolution int   // declared bit depth
	BytesInc   int64 // byte offset of this channel's first sample
	DataType   int   // 0 = unsigned integer, 1 = float
	ChannelTag int   // 0 = gray, 1..3 = RGB
	LUTName    string
}

// Tile is one entry of a mosaic acquisition: the tile's field indices on
// the mosaic grid and its stage position in meters.
type Tile struct {
	FieldX, FieldY int
	PosX, PosY     float64
}

// Image is one image leaf of the acquisition tree. Immutable once built.
type Image struct {
	Name string
	// Path is the folder path prefix ending with the separator, e.g.
	// "Project/Region 1/". Empty for images at the root.
	Path       string
	Dimensions []Dimension // file declaration order, not canonical order
	Channels   []Channel
	Tiles      []Tile // nil when the image is not a mosaic

	// MemoryID references the pixel block by identifier; empty in legacy
	// files, which resolve blocks by Ordinal instead.
	MemoryID   string
	MemorySize int64 // pixel byte count declared by the metadata
	Ordinal    int   // zero-based image position in document order

	Timestamps []time.Time       // per-plane acquisition times, nil when absent
	Settings   map[string]string // confocal hardware settings, nil when absent

	// StageNavigator marks images written by the stage-navigator
	// extension of the current schema.
	StageNavigator bool
}

// QualifiedName returns the display name disambiguated by folder path.
func (img *Image) QualifiedName() string {
	return img.Path + img.Name
}

// Folder groups child folders and images. It carries no semantics beyond
// the name used to build qualified image names.
type Folder struct {
	Name    string
	Folders []*Folder
	Images  []*Image
}

// Tree is the parsed acquisition hierarchy.
type Tree struct {
	Schema Schema
	Root   *Folder
	// Images lists every image in depth-first, folders-then-images order.
	Images []*Image
}

// Build parses the decoded metadata text into the acquisition tree.
// Unparseable metadata is fatal for the whole file: the tree is the only
// source of pixel block references, so there is no partial fallback.
func Build(xmlText string) (*Tree, error) {
	var doc xmlRoot
	if err := xml.Unmarshal([]byte(xmlText), &doc); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}

	schema := SchemaCurrent
	if doc.Version == "1" {
		schema = SchemaLegacy
	}

	b := &treeBuilder{schema: schema}
	root := &Folder{}
	for i := range doc.Elements {
		b.walk(&doc.Elements[i], root, "")
	}

	return &Tree{Schema: schema, Root: root, Images: b.images}, nil
}

type treeBuilder struct {
	schema  Schema
	images  []*Image
	ordinal int
}

// walk classifies one element as folder or image, mirroring the vendor
// convention: an element with children is a folder even when it also
// carries image data of its own.
func (b *treeBuilder) walk(el *xmlElement, parent *Folder, path string) {
	if len(el.Children) > 0 {
		folder := &Folder{Name: el.Name}
		parent.Folders = append(parent.Folders, folder)
		childPath := path + el.Name + "/"
		for i := range el.Children {
			b.walk(&el.Children[i], folder, childPath)
		}
		return
	}

	if el.Data == nil || el.Data.Image == nil || len(el.Data.Image.Description.Dimensions) == 0 {
		// Not an image; settings-only elements are ignored.
		return
	}

	img := b.buildImage(el, path)
	parent.Images = append(parent.Images, img)
	b.images = append(b.images, img)
}

func (b *treeBuilder) buildImage(el *xmlElement, path string) *Image {
	x := el.Data.Image

	img := &Image{
		Name:    el.Name,
		Path:    path,
		Ordinal: b.ordinal,
	}
	b.ordinal++

	if el.Memory != nil {
		img.MemoryID = el.Memory.MemoryBlockID
		img.MemorySize = el.Memory.Size
	}

	for _, d := range x.Description.Dimensions {
		img.Dimensions = append(img.Dimensions, Dimension{
			DimID:    d.DimID,
			Elements: d.NumberOfElements,
			Origin:   d.Origin,
			Length:   d.Length,
			Unit:     d.Unit,
			BytesInc: d.BytesInc,
		})
	}

	for i, c := range x.Description.Channels {
		img.Channels = append(img.Channels, Channel{
			Index:      i,
			Resolution: c.Resolution,
			BytesInc:   c.BytesInc,
			DataType:   c.DataType,
			ChannelTag: c.ChannelTag,
			LUTName:    c.LUTName,
		})
	}

	for _, att := range x.Attachments {
		switch {
		case att.Name == "TileScanInfo":
			for _, t := range att.Tiles {
				img.Tiles = append(img.Tiles, Tile{
					FieldX: t.FieldX,
					FieldY: t.FieldY,
					PosX:   t.PosX,
					PosY:   t.PosY,
				})
			}
		case att.Name == "StageNavigator":
			img.StageNavigator = true
		case att.Confocal != nil:
			img.Settings = settingsMap(att.Confocal)
		}
	}

	if x.TimeStampList != nil {
		img.Timestamps = parseTimestamps(x.TimeStampList)
	}

	normalizeStrides(img)

	return img
}

// settingsMap flattens the confocal setting definition attributes.
func settingsMap(defn *xmlSettingDefn) map[string]string {
	if len(defn.Attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(defn.Attrs))
	for _, a := range defn.Attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// parseTimestamps decodes either timestamp layout into UTC times.
func parseTimestamps(list *xmlTimeStampList) []time.Time {
	if len(list.Stamps) > 0 {
		out := make([]time.Time, 0, len(list.Stamps))
		for _, s := range list.Stamps {
			ft := uint64(s.HighInteger)<<32 | uint64(s.LowInteger)
			out = append(out, filetimeToTime(ft))
		}
		return out
	}

	fields := strings.Fields(list.Text)
	if list.NumberOfTimeStamps > 0 && list.NumberOfTimeStamps < len(fields) {
		fields = fields[:list.NumberOfTimeStamps]
	}
	var out []time.Time
	for _, f := range fields {
		ft, err := strconv.ParseUint(f, 16, 64)
		if err != nil {
			// Malformed entries are dropped; timestamps are advisory.
			continue
		}
		out = append(out, filetimeToTime(ft))
	}
	return out
}

// filetimeEpochDelta is the seconds between the Windows FILETIME epoch
// (1601-01-01) and the Unix epoch.
const filetimeEpochDelta = 11644473600

// filetimeToTime converts a Windows FILETIME (100 ns ticks since 1601) to
// a UTC time.
func filetimeToTime(ft uint64) time.Time {
	secs := int64(ft/10_000_000) - filetimeEpochDelta
	nanos := int64(ft%10_000_000) * 100
	return time.Unix(secs, nanos).UTC()
}

// normalizeStrides fills in byte increments for legacy metadata that omits
// BytesInc. The derived layout matches the vendor default: X fastest, then
// Y, channel planes, Z, T, tile.
func normalizeStrides(img *Image) {
	for _, d := range img.Dimensions {
		if d.BytesInc != 0 {
			return
		}
	}

	bps := int64(1)
	for _, c := range img.Channels {
		if c.Resolution > 8 {
			bps = 2
			break
		}
	}

	byID := func(id int) *Dimension {
		for i := range img.Dimensions {
			if img.Dimensions[i].DimID == id {
				return &img.Dimensions[i]
			}
		}
		return nil
	}

	stride := bps
	for _, id := range []int{DimX, DimY} {
		if d := byID(id); d != nil {
			d.BytesInc = stride
			stride *= int64(d.Elements)
		}
	}
	planeSize := stride

	channels := int64(len(img.Channels))
	if channels == 0 {
		channels = 1
	}
	for i := range img.Channels {
		if img.Channels[i].BytesInc == 0 {
			img.Channels[i].BytesInc = int64(i) * planeSize
		}
	}

	stride = planeSize * channels
	for _, id := range []int{DimZ, DimT, DimTile} {
		if d := byID(id); d != nil {
			d.BytesInc = stride
			stride *= int64(d.Elements)
		}
	}
}
