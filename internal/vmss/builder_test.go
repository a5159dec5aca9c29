package vmss

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Fixture construction. Containers are assembled in memory in the exact
// on-disk layout: 12-byte header, 80-byte group descriptors, then each
// group's tag stream terminated by the null tag.

type testGroup struct {
	name   string
	stream []byte
}

func appendU16(b []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(b, v) }
func appendU64(b []byte, v uint64) []byte { return binary.LittleEndian.AppendUint64(b, v) }

func appendTag(stream []byte, name string, indices []uint32, value []byte) []byte {
	tag := MakeTag(len(name), len(indices), len(value))
	stream = binary.LittleEndian.AppendUint16(stream, uint16(tag))
	stream = append(stream, name...)
	for _, idx := range indices {
		stream = binary.LittleEndian.AppendUint32(stream, idx)
	}
	return append(stream, value...)
}

func appendBlock(stream []byte, name string, indices []uint32, code int, size uint64, memSize uint64, pad uint16, fill byte) []byte {
	tag := MakeTag(len(name), len(indices), code)
	stream = binary.LittleEndian.AppendUint16(stream, uint16(tag))
	stream = append(stream, name...)
	for _, idx := range indices {
		stream = binary.LittleEndian.AppendUint32(stream, idx)
	}
	stream = binary.LittleEndian.AppendUint64(stream, size)
	stream = binary.LittleEndian.AppendUint64(stream, memSize)
	stream = binary.LittleEndian.AppendUint16(stream, pad)
	payload := make([]byte, size+uint64(pad))
	for i := range payload {
		payload[i] = fill
	}
	return append(stream, payload...)
}

func terminate(stream []byte) []byte {
	return binary.LittleEndian.AppendUint16(stream, uint16(TagNull))
}

func buildContainer(t *testing.T, magic uint32, groups []testGroup) []byte {
	t.Helper()

	data := binary.LittleEndian.AppendUint32(nil, magic)
	data = binary.LittleEndian.AppendUint32(data, 1) // version
	data = binary.LittleEndian.AppendUint32(data, uint32(len(groups)))

	offset := uint64(len(data)) + uint64(len(groups))*groupDescSize
	for _, g := range groups {
		if len(g.name) >= groupNameLen {
			t.Fatalf("group name %q too long", g.name)
		}
		desc := make([]byte, groupDescSize)
		copy(desc, g.name)
		binary.LittleEndian.PutUint64(desc[groupNameLen:], offset)
		binary.LittleEndian.PutUint64(desc[groupNameLen+8:], uint64(len(g.stream)))
		data = append(data, desc...)
		offset += uint64(len(g.stream))
	}
	for _, g := range groups {
		data = append(data, g.stream...)
	}
	return data
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vmss")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func readBack(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back fixture: %v", err)
	}
	return data
}
