package vmss

// Tag is the 16-bit packed record header that prefixes every entry in a
// group's tag stream. It packs a name length, an index count, and a
// value-size code:
//
//	bits 8..15  name length (0..255)
//	bits 6..7   index count (0..3)
//	bits 0..5   value size code (0..61, or one of the two block codes)
type Tag uint16

const (
	tagNameLenShift = 8
	tagNameLenMask  = 0xff
	tagNumIndxShift = 6
	tagNumIndxMask  = 0x3
	tagValSizeMask  = 0x3f
)

// TagNull terminates a group's tag stream. It is never decoded into a record.
const TagNull Tag = 0

// Special value-size codes marking an out-of-line block payload. Both are
// skipped identically; compression is never interpreted.
const (
	ValSizeBlockCompressed = 0x3e
	ValSizeBlock           = 0x3f
)

// Format maxima. Buffers sized to these never need to grow.
const (
	MaxNameLen = tagNameLenMask
	MaxIndices = tagNumIndxMask
	MaxValSize = ValSizeBlockCompressed - 1
)

// NameLen returns the length of the record name in bytes.
func (t Tag) NameLen() int {
	return int(t>>tagNameLenShift) & tagNameLenMask
}

// NumIndices returns how many 4-byte index slots follow the name.
func (t Tag) NumIndices() int {
	return int(t>>tagNumIndxShift) & tagNumIndxMask
}

// ValSize returns the raw value-size code, including the block codes.
func (t Tag) ValSize() int {
	return int(t) & tagValSizeMask
}

// IsBlock reports whether the payload is an out-of-line block rather than an
// inline value.
func (t Tag) IsBlock() bool {
	vs := t.ValSize()
	return vs == ValSizeBlock || vs == ValSizeBlockCompressed
}

// MakeTag packs the three header fields back into a tag code. Fields outside
// their bit widths are truncated.
func MakeTag(nameLen, numIndices, valSize int) Tag {
	return Tag(nameLen&tagNameLenMask)<<tagNameLenShift |
		Tag(numIndices&tagNumIndxMask)<<tagNumIndxShift |
		Tag(valSize&tagValSizeMask)
}
