// Package container scans the LIF block stream.
//
// A LIF file is a sequence of length-prefixed blocks. The first block holds
// the UTF-16 XML metadata describing the acquisition tree; every following
// block is a memory block holding raw pixel bytes, labeled with a UTF-16
// identifier string that the metadata references. Scanning records offsets
// and lengths only; pixel bytes are never copied here.
package container

import (
	"errors"
	"fmt"
	"io"

	"github.com/robert-malhotra/go-lif/internal/binary"
)

// Block layout constants. Every block opens with the uint32 magic, a uint32
// chunk length, and the 0x2A test byte. Memory block sizes are uint32 in
// older files and uint64 in large-file captures; the variant is detected by
// probing for the test byte after the first four size bytes.
const (
	blockMagic = 0x70
	testByte   = 0x2A
)

// Scan errors.
var (
	ErrNoMagic  = errors.New("missing LIF block magic")
	ErrNoTest   = errors.New("missing LIF test byte")
	ErrNoHeader = errors.New("missing metadata block")
)

// Block records the location of one memory block's pixel bytes.
type Block struct {
	// ID is the memory block identifier from the block's description
	// string, e.g. "MemBlock_233". Referenced by the metadata tree.
	ID string

	// Offset is the position of the first pixel byte.
	Offset int64

	// Size is the declared pixel byte count.
	Size int64

	// Stored is the byte count actually present in the file. Equal to
	// Size unless the file is truncated.
	Stored int64

	// Truncated is set when Stored < Size.
	Truncated bool
}

// Container is the scanned view of one LIF byte source: the decoded
// metadata text plus the location of every memory block. Immutable once
// returned by Scan.
type Container struct {
	xml       string
	blocks    map[string]*Block
	order     []*Block
	ambiguous map[string]bool
}

// XML returns the decoded metadata text.
func (c *Container) XML() string {
	return c.xml
}

// Block returns the memory block with the given identifier. ok is false
// when the identifier was never scanned or was scanned more than once.
func (c *Container) Block(id string) (*Block, bool) {
	if c.ambiguous[id] {
		return nil, false
	}
	b, ok := c.blocks[id]
	return b, ok
}

// BlockAt returns the i'th memory block in scan order. Legacy metadata
// without block identifiers resolves blocks by ordinal position.
func (c *Container) BlockAt(i int) (*Block, bool) {
	if i < 0 || i >= len(c.order) {
		return nil, false
	}
	return c.order[i], true
}

// NumBlocks returns the number of memory blocks scanned.
func (c *Container) NumBlocks() int {
	return len(c.order)
}

// Scan walks the block stream of a LIF byte source of the given size.
// The first block must be the metadata block; scanning stops cleanly at
// end-of-stream, and a final memory block whose declared size overruns the
// remaining bytes is recorded as truncated rather than failing the scan.
func Scan(r io.ReaderAt, size int64) (*Container, error) {
	rd := binary.NewReader(r)

	xml, err := readMetadataBlock(rd)
	if err != nil {
		return nil, err
	}

	c := &Container{
		xml:       xml,
		blocks:    make(map[string]*Block),
		ambiguous: make(map[string]bool),
	}

	for rd.Pos() < size {
		blk, err := readMemoryBlock(rd, size)
		if err != nil {
			if atEOF(err) {
				// Ragged tail after the last complete block.
				break
			}
			return nil, fmt.Errorf("memory block at %d: %w", rd.Pos(), err)
		}

		c.order = append(c.order, blk)
		if _, dup := c.blocks[blk.ID]; dup {
			c.ambiguous[blk.ID] = true
		} else {
			c.blocks[blk.ID] = blk
		}

		if blk.Truncated {
			break
		}
		rd.Skip(blk.Size)
	}

	return c, nil
}

// readMetadataBlock reads the leading metadata block and decodes its XML
// payload. Layout: magic, chunk length, test byte, UTF-16 code unit count,
// payload.
func readMetadataBlock(rd *binary.Reader) (string, error) {
	magic, err := rd.ReadUint32()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	if magic != blockMagic {
		return "", fmt.Errorf("%w: got 0x%x at offset 0", ErrNoMagic, magic)
	}
	if _, err := rd.ReadUint32(); err != nil { // chunk length, unused
		return "", fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	if err := expectTestByte(rd); err != nil {
		return "", err
	}
	units, err := rd.ReadUint32()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	payload, err := rd.ReadBytes(int(units) * 2)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHeader, err)
	}
	xml, err := binary.DecodeUTF16(payload)
	if err != nil {
		return "", fmt.Errorf("decoding metadata text: %w", err)
	}
	return xml, nil
}

// readMemoryBlock reads one memory block header. The reader is left
// positioned at the first pixel byte; the caller skips past the pixel data.
func readMemoryBlock(rd *binary.Reader, size int64) (*Block, error) {
	magic, err := rd.ReadUint32()
	if err != nil {
		return nil, err
	}
	if magic != blockMagic {
		return nil, fmt.Errorf("%w: got 0x%x", ErrNoMagic, magic)
	}
	if _, err := rd.ReadUint32(); err != nil { // chunk length, unused
		return nil, err
	}
	if err := expectTestByte(rd); err != nil {
		return nil, err
	}

	blockSize, err := readBlockSize(rd)
	if err != nil {
		return nil, err
	}

	descUnits, err := rd.ReadUint32()
	if err != nil {
		return nil, err
	}
	descBytes, err := rd.ReadBytes(int(descUnits) * 2)
	if err != nil {
		return nil, err
	}
	id, err := binary.DecodeUTF16(descBytes)
	if err != nil {
		return nil, fmt.Errorf("decoding block description: %w", err)
	}

	blk := &Block{
		ID:     id,
		Offset: rd.Pos(),
		Size:   blockSize,
		Stored: blockSize,
	}
	if blk.Offset+blk.Size > size {
		blk.Stored = size - blk.Offset
		if blk.Stored < 0 {
			blk.Stored = 0
		}
		blk.Truncated = true
	}
	return blk, nil
}

// readBlockSize reads the pixel byte count, handling both size widths:
// uint32 followed by the test byte, or uint64 followed by the test byte in
// large-file captures. The width is detected by probing the byte after the
// first four size bytes.
func readBlockSize(rd *binary.Reader) (int64, error) {
	size32, err := rd.ReadUint32()
	if err != nil {
		return 0, err
	}
	probe, err := rd.Peek(1)
	if err != nil {
		return 0, err
	}
	if probe[0] == testByte {
		rd.Skip(1)
		return int64(size32), nil
	}
	rd.Skip(-4)
	size64, err := rd.ReadUint64()
	if err != nil {
		return 0, err
	}
	if err := expectTestByte(rd); err != nil {
		return 0, err
	}
	return int64(size64), nil
}

func expectTestByte(rd *binary.Reader) error {
	b, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	if b != testByte {
		return fmt.Errorf("%w: got 0x%x", ErrNoTest, b)
	}
	return nil
}

func atEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
