package syncengine

import (
	"fmt"
	"path/filepath"

	"github.com/joe/tree-sync/pkg/fileops"
)

// FileTask is one file the copying pass is working on.
type FileTask struct {
	SourcePath   string
	RelativePath string // relative to the source root, re-joined onto the destination root
	DestPath     string
}

// NewFileTask maps sourcePath under sourceRoot to the same relative location
// under destRoot.
func NewFileTask(sourceRoot, destRoot, sourcePath string) (FileTask, error) {
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil {
		return FileTask{}, fmt.Errorf("failed to relate %s to %s: %w", sourcePath, sourceRoot, err)
	}

	return FileTask{
		SourcePath:   sourcePath,
		RelativePath: rel,
		DestPath:     filepath.Join(destRoot, rel),
	}, nil
}

// Transfer performs the copies for a run.
type Transfer struct {
	ops *fileops.FileOps
}

// NewTransfer creates a Transfer on top of ops.
func NewTransfer(ops *fileops.FileOps) *Transfer {
	return &Transfer{ops: ops}
}

// Copy replicates task.SourcePath to task.DestPath. Failures are returned as *IOError.
func (t *Transfer) Copy(task FileTask) (fileops.CopyStats, error) {
	stats, err := t.ops.CopyFile(task.SourcePath, task.DestPath)
	if err != nil {
		return *stats, &IOError{SourcePath: task.SourcePath, DestPath: task.DestPath, Err: err}
	}

	return *stats, nil
}
