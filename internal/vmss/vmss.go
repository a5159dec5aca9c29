// Package vmss reads and selectively patches VMware suspended state (VMSS)
// snapshot files. A VMSS container is a fixed header, a table of named groups,
// and per group a self-describing tag-record stream. The format is
// reverse-engineered and undocumented upstream; everything this package does
// not need to decode is skipped byte-exactly and left untouched.
package vmss

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Container magic values. MagicOld marks the deprecated 32-bit variant and is
// rejected before the group table is read.
const (
	MagicOld      = 0xbed0bed0
	MagicRestored = 0xbed1bed1
	Magic         = 0xbed2bed2
	MagicPartial  = 0xbed3bed3
)

const (
	groupNameLen  = 64
	groupDescSize = groupNameLen + 8 + 8
)

// Header is the fixed 12-byte container header.
type Header struct {
	Magic     uint32
	Version   uint32
	NumGroups uint32
}

// Group describes one named byte range of the container. Size is advisory
// only; the tag stream is self-terminating.
type Group struct {
	Name   string
	Offset uint64
	Size   uint64
}

// File is an open VMSS container. The underlying descriptor is opened
// read/write for the duration of the run because the patch path rewrites a
// single byte in place.
type File struct {
	Path   string
	Header Header
	Groups []Group

	f *os.File
}

// Open opens path read/write, takes an exclusive advisory lock, and reads the
// container header and group table. The lock keeps two invocations from
// interleaving their cursors on the same file; external writers remain
// undefined behavior.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	vf, err := readContainer(f, path)
	if err != nil {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
		return nil, err
	}
	return vf, nil
}

func readContainer(f *os.File, path string) (*File, error) {
	c := &cursor{f: f}

	var hdr Header
	var err error
	if hdr.Magic, err = c.readU32("read header magic"); err != nil {
		return nil, err
	}

	switch hdr.Magic {
	case Magic, MagicRestored, MagicPartial:
	case MagicOld:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	default:
		return nil, fmt.Errorf("%s: %w (magic 0x%08x)", path, ErrNotVMSS, hdr.Magic)
	}

	if hdr.Version, err = c.readU32("read header version"); err != nil {
		return nil, err
	}
	if hdr.NumGroups, err = c.readU32("read header group count"); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, hdr.NumGroups)
	buf := make([]byte, groupDescSize)
	for i := uint32(0); i < hdr.NumGroups; i++ {
		if err := c.readFull(fmt.Sprintf("read group %d", i), buf); err != nil {
			return nil, err
		}
		groups = append(groups, decodeGroup(buf))
	}

	return &File{
		Path:   path,
		Header: hdr,
		Groups: groups,
		f:      f,
	}, nil
}

func decodeGroup(buf []byte) Group {
	name := buf[:groupNameLen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return Group{
		Name:   string(name),
		Offset: binary.LittleEndian.Uint64(buf[groupNameLen:]),
		Size:   binary.LittleEndian.Uint64(buf[groupNameLen+8:]),
	}
}

// Close releases the advisory lock and the underlying descriptor.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	_ = unix.Flock(int(f.f.Fd()), unix.LOCK_UN)
	err := f.f.Close()
	f.f = nil
	return err
}
