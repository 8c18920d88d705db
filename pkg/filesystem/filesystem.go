// Package filesystem provides an abstraction layer for filesystem operations
// so the sync engine can run against the real disk or a fault-injecting wrapper.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kr/fs"
)

// File is an interface that abstracts file operations.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem is an interface that abstracts filesystem operations.
// It embeds the kr/fs walk contract (ReadDir, Lstat, Join) so trees can be
// traversed with fs.WalkFS over any implementation.
type FileSystem interface {
	fs.FileSystem

	Stat(path string) (os.FileInfo, error)
	Open(path string) (File, error)
	Create(path string) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
	Chmod(path string, mode os.FileMode) error
}

// Walk returns a top-down walker over the tree rooted at root.
func Walk(fsys FileSystem, root string) *fs.Walker {
	return fs.WalkFS(root, fsys)
}

// ListFiles returns the non-directory entries of dir in listing order.
// Symbolic links are resolved: links to directories are left out, links to
// files are reported with their target's metadata, and dangling links are
// kept so that copying them surfaces an error.
func ListFiles(fsys FileSystem, dir string) ([]os.FileInfo, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if entry.Mode()&os.ModeSymlink != 0 {
			target, statErr := fsys.Stat(fsys.Join(dir, entry.Name()))
			if statErr == nil {
				if target.IsDir() {
					continue
				}

				files = append(files, namedInfo{FileInfo: target, name: entry.Name()})

				continue
			}
		}

		files = append(files, entry)
	}

	return files, nil
}

// RealFileSystem implements FileSystem using actual os/filepath functions.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Chmod changes the permission bits of a file.
func (rfs *RealFileSystem) Chmod(path string, mode os.FileMode) error {
	err := os.Chmod(path, mode)
	if err != nil {
		return fmt.Errorf("failed to change mode for %s: %w", path, err)
	}

	return nil
}

// Chtimes changes the access and modification times of a file.
func (rfs *RealFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := os.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Create creates a file for writing, truncating an existing one.
func (rfs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.Create(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// Join joins path elements with the OS separator.
func (rfs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following a final symbolic link.
func (rfs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	return info, nil
}

// MkdirAll creates a directory and all necessary parents.
func (rfs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (rfs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a directory sorted by name.
func (rfs *RealFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirname, err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between listing and stat
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to stat %s: %w", filepath.Join(dirname, entry.Name()), err)
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// Stat returns file information, following symbolic links.
func (rfs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// namedInfo reports a link target's metadata under the link's own name.
type namedInfo struct {
	os.FileInfo

	name string
}

func (n namedInfo) Name() string { return n.name }
