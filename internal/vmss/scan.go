package vmss

import (
	"github.com/samcharles93/vmssnmi/internal/logger"
)

// Record is one decoded tag-stream entry. Unused index slots are zero. For
// block-coded tags the Block* fields carry the block header; the payload
// itself is never inspected.
type Record struct {
	Tag     Tag
	Name    string
	Indices [MaxIndices]uint32

	BlockSize    uint64
	BlockMemSize uint64
	BlockPad     uint16
}

// visitFunc observes one decoded record. For inline records the cursor sits
// at the payload start; returning consumed=true tells the scanner the visitor
// advanced the cursor past the payload itself. Block payloads are always
// skipped by the scanner and consumed is ignored.
type visitFunc func(c *cursor, rec Record) (consumed bool, err error)

// scanGroup drives a single pass over one group's tag stream: tag code, name,
// indices, then either the block header and a skip, or the inline payload.
// The stream ends at the null tag regardless of the group's declared size.
// Any short read or failed seek aborts the run; the format offers nothing to
// resynchronize on.
func (f *File) scanGroup(g Group, log logger.Logger, visit visitFunc) error {
	c := &cursor{f: f.f}
	if err := c.seekTo("seek to group "+g.Name, int64(g.Offset)); err != nil {
		return err
	}

	name := make([]byte, 0, MaxNameLen)
	for {
		code, err := c.readU16("read tag")
		if err != nil {
			return err
		}
		tag := Tag(code)
		if tag == TagNull {
			return nil
		}

		name = name[:tag.NameLen()]
		if err := c.readFull("read name", name); err != nil {
			return err
		}

		rec := Record{Tag: tag, Name: string(name)}
		for i := 0; i < tag.NumIndices(); i++ {
			if rec.Indices[i], err = c.readU32("read index"); err != nil {
				return err
			}
		}

		log.Debug("tag",
			"name", rec.Name,
			"size", tag.ValSize(),
			"nindx", tag.NumIndices(),
			"indices", rec.Indices)

		if tag.IsBlock() {
			if err := skipBlock(c, log, &rec); err != nil {
				return err
			}
			if _, err := visit(c, rec); err != nil {
				return err
			}
			continue
		}

		consumed, err := visit(c, rec)
		if err != nil {
			return err
		}
		if !consumed {
			if err := c.skip("skip value", int64(tag.ValSize())); err != nil {
				return err
			}
		}
	}
}

// skipBlock reads the block header and advances the cursor past the payload
// without materializing it. The producer lays the u16 pad field out so that
// it cannot be read as part of one packed size/memsize struct; it has to be
// decoded as a separate third read.
func skipBlock(c *cursor, log logger.Logger, rec *Record) error {
	var err error
	if rec.BlockSize, err = c.readU64("read block size"); err != nil {
		return err
	}
	if rec.BlockMemSize, err = c.readU64("read block memsize"); err != nil {
		return err
	}
	if rec.BlockPad, err = c.readU16("read block padding"); err != nil {
		return err
	}

	log.Debug("block",
		"size", rec.BlockSize,
		"memsize", rec.BlockMemSize,
		"pad", rec.BlockPad)

	return c.skip("skip block", int64(rec.BlockSize)+int64(rec.BlockPad))
}
