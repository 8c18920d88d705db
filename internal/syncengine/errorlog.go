package syncengine

import (
	"fmt"
	"os"
	"sync"
)

// ErrorRecord describes one file that could not be copied.
type ErrorRecord struct {
	SourcePath string
	DestPath   string
	Message    string
}

// String formats the record the way it is written to the log.
func (r ErrorRecord) String() string {
	return fmt.Sprintf("Error copying %s to %s: %s", r.SourcePath, r.DestPath, r.Message)
}

// ErrorLog is the append-only, plain-text record of per-file failures.
// It is truncated at the start of every run.
type ErrorLog struct {
	path string
	mu   sync.Mutex
	file *os.File
}

// NewErrorLog creates an ErrorLog writing to path. Nothing is opened until Reset.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path}
}

// Path returns the log file location.
func (l *ErrorLog) Path() string {
	return l.path
}

// Reset truncates the log, creating it if needed. Failure here is fatal to
// starting a run.
func (l *ErrorLog) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // log is meant to be readable
	if err != nil {
		return &LogError{Path: l.path, Err: err}
	}

	l.file = f

	return nil
}

// Append writes record followed by a blank line. Write errors are swallowed;
// logging must never abort a run.
func (l *ErrorLog) Append(record ErrorRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	_, _ = fmt.Fprintf(l.file, "%s\n\n", record)
}

// Close releases the log file. The contents stay on disk until the next Reset.
func (l *ErrorLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}
