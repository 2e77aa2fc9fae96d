// Package binary provides low-level binary I/O for LIF container parsing.
//
// LIF files are always little-endian, so unlike formats with a configurable
// byte order the reader is fixed to binary.LittleEndian. All reads are
// positioned (io.ReaderAt), never cursor-based, so independent readers over
// the same source never interfere with each other.
package binary

import (
	"encoding/binary"
	"io"
)

// Reader provides positioned reads of little-endian LIF fields.
type Reader struct {
	r   io.ReaderAt
	pos int64
}

// NewReader creates a reader positioned at the start of the source.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := r.r.ReadAt(buf, r.pos); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadUint64 reads an unsigned 64-bit little-endian integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// Peek reads n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := r.r.ReadAt(buf, r.pos); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadClamped reads n bytes starting at offset, zero-filling anything at
// or past limit or beyond end-of-stream. The returned slice always has
// length n. It does not move the reader position; pixel reads from
// truncated memory blocks rely on the zero fill.
func (r *Reader) ReadClamped(offset int64, n int, limit int64) ([]byte, error) {
	buf := make([]byte, n)
	if n <= 0 || offset >= limit {
		return buf, nil
	}
	m := n
	if avail := limit - offset; int64(m) > avail {
		m = int(avail)
	}
	if _, err := r.r.ReadAt(buf[:m], offset); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf, nil
}
