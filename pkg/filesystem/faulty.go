package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Op names a FileSystem method that a FaultyFileSystem can fail.
type Op string

// Operations that can be failed.
const (
	OpChmod    Op = "chmod"
	OpChtimes  Op = "chtimes"
	OpCreate   Op = "create"
	OpLstat    Op = "lstat"
	OpMkdirAll Op = "mkdirall"
	OpOpen     Op = "open"
	OpReadDir  Op = "readdir"
	OpStat     Op = "stat"
	OpWrite    Op = "write"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault")

// FaultyFileSystem wraps another FileSystem and fails chosen operations on
// paths matching doublestar patterns. Patterns are matched against the
// slash-separated absolute path.
type FaultyFileSystem struct {
	FileSystem

	mu     sync.RWMutex
	faults []fault
}

type fault struct {
	op      Op
	pattern string
	err     error
}

// NewFaultyFileSystem wraps inner. With no faults registered it behaves exactly like inner.
func NewFaultyFileSystem(inner FileSystem) *FaultyFileSystem {
	return &FaultyFileSystem{FileSystem: inner}
}

// Fail registers a fault: op on any path matching pattern returns err
// (ErrInjected when err is nil).
func (f *FaultyFileSystem) Fail(op Op, pattern string, err error) {
	if err == nil {
		err = ErrInjected
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults = append(f.faults, fault{op: op, pattern: pattern, err: err})
}

// Clear removes all registered faults.
func (f *FaultyFileSystem) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults = nil
}

// Chmod fails if a chmod fault matches, otherwise delegates.
func (f *FaultyFileSystem) Chmod(path string, mode os.FileMode) error {
	if err := f.check(OpChmod, path); err != nil {
		return err
	}

	return f.FileSystem.Chmod(path, mode)
}

// Chtimes fails if a chtimes fault matches, otherwise delegates.
func (f *FaultyFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	if err := f.check(OpChtimes, path); err != nil {
		return err
	}

	return f.FileSystem.Chtimes(path, atime, mtime)
}

// Create fails if a create fault matches. A matching write fault yields a
// file whose writes fail after the file was created.
func (f *FaultyFileSystem) Create(path string) (File, error) {
	if err := f.check(OpCreate, path); err != nil {
		return nil, err
	}

	file, err := f.FileSystem.Create(path)
	if err != nil {
		return nil, err
	}

	if writeErr := f.check(OpWrite, path); writeErr != nil {
		return &failingWriter{File: file, err: writeErr}, nil
	}

	return file, nil
}

// Lstat fails if an lstat fault matches, otherwise delegates.
func (f *FaultyFileSystem) Lstat(path string) (os.FileInfo, error) {
	if err := f.check(OpLstat, path); err != nil {
		return nil, err
	}

	return f.FileSystem.Lstat(path)
}

// MkdirAll fails if a mkdirall fault matches, otherwise delegates.
func (f *FaultyFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.FileSystem.MkdirAll(path, perm)
}

// Open fails if an open fault matches, otherwise delegates.
func (f *FaultyFileSystem) Open(path string) (File, error) {
	if err := f.check(OpOpen, path); err != nil {
		return nil, err
	}

	return f.FileSystem.Open(path)
}

// ReadDir fails if a readdir fault matches, otherwise delegates.
func (f *FaultyFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	if err := f.check(OpReadDir, dirname); err != nil {
		return nil, err
	}

	return f.FileSystem.ReadDir(dirname)
}

// Stat fails if a stat fault matches, otherwise delegates.
func (f *FaultyFileSystem) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.FileSystem.Stat(path)
}

func (f *FaultyFileSystem) check(op Op, path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	slashed := filepath.ToSlash(path)

	for _, flt := range f.faults {
		if flt.op != op {
			continue
		}

		matched, err := doublestar.Match(flt.pattern, slashed)
		if err == nil && matched {
			return fmt.Errorf("%s %s: %w", op, path, flt.err)
		}
	}

	return nil
}

// failingWriter is a File whose writes always fail.
type failingWriter struct {
	File

	err error
}

func (w *failingWriter) Write(_ []byte) (int, error) {
	return 0, w.err
}
