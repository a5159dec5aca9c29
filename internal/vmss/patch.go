package vmss

import (
	"github.com/samcharles93/vmssnmi/internal/logger"
)

// The patch target: the per-CPU pending-NMI flag, a 1-byte record in the
// "cpu" group whose first index slot is the CPU id.
const (
	TargetGroup = "cpu"
	TargetName  = "pendingNMI"
)

// AllCPUs selects every pendingNMI record for reporting; it never writes.
const AllCPUs = -1

// Options configures one patch run.
type Options struct {
	// CPU is the target CPU id, or AllCPUs to report every record.
	CPU int
	// DryRun reports current values without mutating the file.
	DryRun bool
	// Value is the replacement byte: 1 posts an NMI, 0 clears a pending one.
	Value uint8
	// Log receives per-tag tracing at debug level. Nil means the default
	// logger.
	Log logger.Logger
}

// Status is the observed state of one pendingNMI record.
type Status struct {
	CPU     uint32 `json:"cpu"`
	Value   uint8  `json:"value"`
	Updated bool   `json:"updated"`
}

// PatchPendingNMI walks every "cpu" group, reports the pendingNMI value for
// each CPU it finds, and in targeted write mode rewrites the single payload
// byte of the record whose first index matches opts.CPU. No other byte of the
// file is touched. Finding no matching record is not an error.
func (f *File) PatchPendingNMI(opts Options) ([]Status, error) {
	log := opts.Log
	if log == nil {
		log = logger.Default()
	}

	var statuses []Status
	visit := func(c *cursor, rec Record) (bool, error) {
		if rec.Tag.IsBlock() || rec.Name != TargetName {
			return false, nil
		}
		if size := rec.Tag.ValSize(); size != 1 {
			return false, &SchemaError{Name: rec.Name, Size: size, Want: 1}
		}

		var val [1]byte
		if err := c.readFull("read pendingNMI value", val[:]); err != nil {
			return false, err
		}

		st := Status{CPU: rec.Indices[0], Value: val[0]}
		if !opts.DryRun && opts.CPU >= 0 && uint32(opts.CPU) == st.CPU {
			if err := c.writeByteBack("write pendingNMI value", opts.Value); err != nil {
				return false, err
			}
			st.Updated = true
		}
		statuses = append(statuses, st)
		return true, nil
	}

	for _, g := range f.Groups {
		if g.Name != TargetGroup {
			continue
		}
		log.Debug("scanning group", "name", g.Name, "offset", g.Offset, "size", g.Size)
		if err := f.scanGroup(g, log, visit); err != nil {
			return statuses, err
		}
	}
	return statuses, nil
}

// WalkGroup decodes every record of one group, invoking fn for each. Inline
// payloads are skipped, never read; block payloads are skipped via their own
// size header. Used by the inspect surface.
func (f *File) WalkGroup(g Group, log logger.Logger, fn func(Record) error) error {
	if log == nil {
		log = logger.Default()
	}
	return f.scanGroup(g, log, func(_ *cursor, rec Record) (bool, error) {
		return false, fn(rec)
	})
}
