package lif

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-lif/internal/binary"
	"github.com/robert-malhotra/go-lif/internal/container"
	"github.com/robert-malhotra/go-lif/internal/meta"
)

// File represents an open LIF file.
//
// The folder/image tree is built once at open time and never mutated, so it
// may be shared freely between goroutines. Pixel reads go through the
// underlying io.ReaderAt with positioned reads only; no shared cursor is
// involved, so concurrent GetFrame calls are safe as long as the source's
// ReadAt is (os.File qualifies).
type File struct {
	path      string
	file      *os.File // nil when opened from a caller-owned source
	src       io.ReaderAt
	rd        *binary.Reader
	size      int64
	container *container.Container
	tree      *meta.Tree
	root      *Folder
	images    []*Image
	closed    bool
}

// Open opens a LIF file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	lf, err := open(f, info.Size(), path)
	if err != nil {
		f.Close()
		return nil, err
	}
	lf.file = f
	return lf, nil
}

// NewReader opens a LIF container from an in-memory or caller-owned byte
// source of the given size. The source must stay valid for the lifetime of
// the returned File; Close does not close it.
func NewReader(r io.ReaderAt, size int64) (*File, error) {
	return open(r, size, "")
}

func open(r io.ReaderAt, size int64, path string) (*File, error) {
	c, err := container.Scan(r, size)
	if err != nil {
		if isFormatErr(err) {
			return nil, fmt.Errorf("%w: %v", ErrNotLIF, err)
		}
		return nil, fmt.Errorf("scanning blocks: %w", err)
	}

	tree, err := meta.Build(c.XML())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	f := &File{
		path:      path,
		src:       r,
		rd:        binary.NewReader(r),
		size:      size,
		container: c,
		tree:      tree,
	}
	byDesc := make(map[*meta.Image]*Image, len(tree.Images))
	for _, desc := range tree.Images {
		img := newImage(f, desc)
		byDesc[desc] = img
		f.images = append(f.images, img)
	}
	f.root = newFolder(tree.Root, byDesc)
	return f, nil
}

// isFormatErr reports whether a scan failure means the source is not a LIF
// container at all, as opposed to a damaged one.
func isFormatErr(err error) bool {
	for _, sentinel := range []error{
		container.ErrNoHeader,
		container.ErrNoMagic,
		container.ErrNoTest,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Close closes the file handle owned by Open. Files opened with NewReader
// leave the source untouched.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Root returns the root folder of the acquisition tree.
func (f *File) Root() *Folder {
	return f.root
}

// Path returns the file path, or "" when opened from a reader.
func (f *File) Path() string {
	return f.path
}

// SchemaVersion returns the metadata schema version (1 for the legacy
// layout, 2 for the current one).
func (f *File) SchemaVersion() int {
	return int(f.tree.Schema)
}

// XMLHeader returns the decoded metadata text. Useful for debugging and
// for extracting vendor fields this package does not model.
func (f *File) XMLHeader() string {
	return f.container.XML()
}

// Images returns every image in the tree in depth-first, folders-then-
// images order. The returned slice is shared; callers must not modify it.
func (f *File) Images() []*Image {
	return f.images
}

// NumImages returns the number of images in the tree.
func (f *File) NumImages() int {
	return len(f.images)
}

// Image returns the i'th image in depth-first order.
func (f *File) Image(i int) (*Image, error) {
	if i < 0 || i >= len(f.images) {
		return nil, fmt.Errorf("%w: image %d of %d", ErrOutOfRange, i, len(f.images))
	}
	return f.images[i], nil
}
