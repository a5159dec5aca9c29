package vmss

import (
	"errors"
	"fmt"
)

var (
	// ErrNotVMSS is returned when the container magic is not one of the
	// known VMSS magic values.
	ErrNotVMSS = errors.New("not a VMSS file")

	// ErrUnsupported is returned for the deprecated 32-bit VMSS variant.
	ErrUnsupported = errors.New("32-bit VMSS files are not supported")
)

// OffsetError wraps an I/O failure with the byte offset at which it occurred.
// The format has no resynchronization marker, so every OffsetError is fatal
// for the whole run.
type OffsetError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%s at offset 0x%x: %v", e.Op, e.Offset, e.Err)
}

func (e *OffsetError) Unwrap() error {
	return e.Err
}

// SchemaError indicates that a target record exists but its shape does not
// match what the format is known to use, meaning the tool's assumptions no
// longer hold.
type SchemaError struct {
	Name string
	Size int
	Want int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %q has unexpected value size %d (expected %d)",
		e.Name, e.Size, e.Want)
}
