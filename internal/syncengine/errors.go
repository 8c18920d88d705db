package syncengine

import (
	"errors"
	"fmt"
)

// Exported variables.
var (
	ErrDestRequired   = errors.New("destination directory not selected")
	ErrRunActive      = errors.New("a sync run is already active")
	ErrSameRoot       = errors.New("source and destination are the same directory")
	ErrSourceNotDir   = errors.New("source root is not a directory")
	ErrSourceRequired = errors.New("source directory not selected")
	ErrStopped        = errors.New("sync stopped")
)

// ConfigError reports a configuration problem found before a run starts.
// The run never begins.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IOError reports a failure to copy one file. The run logs it and moves on.
type IOError struct {
	SourcePath string
	DestPath   string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.SourcePath, e.DestPath, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// RunError reports a failure of the traversal itself, such as the source
// root disappearing. The run ends in StateFailed.
type RunError struct {
	Path string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("walking %s: %v", e.Path, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// LogError reports that the error log could not be prepared at run start.
// Failures appending to the log afterwards are never surfaced.
type LogError struct {
	Path string
	Err  error
}

func (e *LogError) Error() string {
	return fmt.Sprintf("error log %s: %v", e.Path, e.Err)
}

func (e *LogError) Unwrap() error { return e.Err }
