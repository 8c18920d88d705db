// Package fileops copies single files between filesystems, preserving
// content, modification time and permission bits.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/joe/tree-sync/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (64KB)
	BufferSize = 64 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o750
)

// CopyStats contains timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// FileOps provides file operations with dependency injection for filesystem access.
type FileOps struct {
	FS filesystem.FileSystem
}

// NewFileOps creates a new FileOps instance with the given filesystem.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{FS: fs}
}

// NewRealFileOps creates a new FileOps instance using the real filesystem.
func NewRealFileOps() *FileOps {
	return &FileOps{FS: filesystem.NewRealFileSystem()}
}

// CopyFile copies src to dst, creating dst's parent directories as needed and
// carrying over the source's modification time and permission bits.
// An existing dst is truncated and rewritten. A failed copy may leave a
// partial dst behind; nothing is cleaned up.
func (fo *FileOps) CopyFile(src, dst string) (*CopyStats, error) {
	stats := &CopyStats{}

	sourceFile, err := fo.FS.Open(src)
	if err != nil {
		return stats, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	dstDir := filepath.Dir(dst)

	err = fo.FS.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return stats, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	destFile, err := fo.FS.Create(dst)
	if err != nil {
		return stats, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	_, err = fo.copyLoop(sourceFile, destFile, stats)
	if err != nil {
		_ = destFile.Close()
		return stats, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close before touching metadata so buffered writes cannot bump the modtime afterwards
	err = destFile.Close()
	if err != nil {
		return stats, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = fo.FS.Chmod(dst, sourceInfo.Mode().Perm())
	if err != nil {
		return stats, fmt.Errorf("failed to preserve permissions for %s: %w", dst, err)
	}

	err = fo.FS.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return stats, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	return stats, nil
}

// copyLoop performs the actual file copy with timing.
func (fo *FileOps) copyLoop(sourceFile, destFile filesystem.File, stats *CopyStats) (int64, error) {
	buf := make([]byte, BufferSize)

	for {
		readStart := time.Now()
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			nw, writeErr := writeBufferWithTiming(destFile, buf, nr, stats) //nolint:varnamelen // nw is idiomatic
			if writeErr != nil {
				return stats.BytesCopied, fmt.Errorf("failed to write to destination: %w", writeErr)
			}

			if nr != nw {
				return stats.BytesCopied, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			stats.BytesCopied += int64(nw)
		}

		if errors.Is(err, io.EOF) {
			return stats.BytesCopied, nil
		}

		if err != nil {
			return stats.BytesCopied, fmt.Errorf("failed to read from source: %w", err)
		}
	}
}

func writeBufferWithTiming(destFile filesystem.File, buf []byte, nr int, stats *CopyStats) (int, error) {
	writeStart := time.Now()
	nw, err := destFile.Write(buf[0:nr])
	stats.WriteTime += time.Since(writeStart)

	return nw, err //nolint:wrapcheck // wrapped by copyLoop
}
