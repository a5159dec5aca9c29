package vmss

import (
	"encoding/binary"
	"io"
	"os"
)

// cursor is a sequential, offset-tracking view over the open snapshot file.
// Every decode step depends on the position left by the previous one, so all
// reads go through here unbuffered; the patch path writes through the same
// descriptor after a one-byte relative seek.
type cursor struct {
	f   *os.File
	off int64
}

func (c *cursor) seekTo(op string, off int64) error {
	if _, err := c.f.Seek(off, io.SeekStart); err != nil {
		return &OffsetError{Op: op, Offset: off, Err: err}
	}
	c.off = off
	return nil
}

func (c *cursor) readFull(op string, buf []byte) error {
	if _, err := io.ReadFull(c.f, buf); err != nil {
		return &OffsetError{Op: op, Offset: c.off, Err: err}
	}
	c.off += int64(len(buf))
	return nil
}

func (c *cursor) readU16(op string) (uint16, error) {
	var b [2]byte
	if err := c.readFull(op, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (c *cursor) readU32(op string) (uint32, error) {
	var b [4]byte
	if err := c.readFull(op, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (c *cursor) readU64(op string) (uint64, error) {
	var b [8]byte
	if err := c.readFull(op, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// skip advances the cursor n bytes without reading the content.
func (c *cursor) skip(op string, n int64) error {
	off, err := c.f.Seek(n, io.SeekCurrent)
	if err != nil {
		return &OffsetError{Op: op, Offset: c.off, Err: err}
	}
	c.off = off
	return nil
}

// writeByteBack rewinds one byte and overwrites it with v, leaving the cursor
// where it started. This is the only mutation the package ever performs.
func (c *cursor) writeByteBack(op string, v byte) error {
	if _, err := c.f.Seek(-1, io.SeekCurrent); err != nil {
		return &OffsetError{Op: op, Offset: c.off, Err: err}
	}
	c.off--
	if _, err := c.f.Write([]byte{v}); err != nil {
		return &OffsetError{Op: op, Offset: c.off, Err: err}
	}
	c.off++
	return nil
}
