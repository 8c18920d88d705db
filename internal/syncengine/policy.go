package syncengine

import (
	"time"

	"github.com/joe/tree-sync/internal/config"
)

// Decision is the outcome of the copy policy for one file.
type Decision int

const (
	// Skip leaves the destination untouched
	Skip Decision = iota
	// CopyAsNew copies a file that is absent at the destination
	CopyAsNew
	// CopyAsOverwrite replaces an existing destination file
	CopyAsOverwrite
)

// String returns the string representation of Decision
func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case CopyAsNew:
		return "new"
	case CopyAsOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// Decide applies mode to one file. destModTime is ignored when destExists is false.
// In CopyNewerOnly equal timestamps are left alone.
func Decide(mode config.Mode, destExists bool, srcModTime, destModTime time.Time) Decision {
	if !destExists {
		switch mode {
		case config.OverwriteAll, config.CopyNewOnly, config.CopyNewerOnly:
			return CopyAsNew
		default:
			return Skip
		}
	}

	switch mode {
	case config.OverwriteAll:
		return CopyAsOverwrite
	case config.CopyNewerOnly:
		if srcModTime.After(destModTime) {
			return CopyAsOverwrite
		}

		return Skip
	case config.CopyNewOnly:
		return Skip
	default:
		return Skip
	}
}
