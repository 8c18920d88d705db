// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultErrorLogPath is where per-file copy failures are recorded unless overridden.
const DefaultErrorLogPath = "file_copy_errors.log"

// Exported variables.
var (
	ErrDestRequired   = errors.New("destination path is required")
	ErrInvalidMode    = errors.New("invalid copy mode")
	ErrInvalidPattern = errors.New("invalid exclude pattern")
	ErrSourceRequired = errors.New("source path is required")
)

// Mode selects which source files are replicated into the destination.
type Mode int

const (
	// OverwriteAll copies every file, replacing whatever is at the destination
	OverwriteAll Mode = iota
	// CopyNewOnly copies only files that do not exist at the destination
	CopyNewOnly
	// CopyNewerOnly copies missing files and files whose source is strictly newer
	CopyNewerOnly
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case OverwriteAll:
		return "overwrite-all"
	case CopyNewOnly:
		return "copy-new"
	case CopyNewerOnly:
		return "copy-newer"
	default:
		return "unknown"
	}
}

// ParseMode parses a string into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite-all", "overwrite_all", "all":
		return OverwriteAll, nil
	case "copy-new", "copy_new", "new":
		return CopyNewOnly, nil
	case "copy-newer", "copy_newer", "newer":
		return CopyNewerOnly, nil
	default:
		return OverwriteAll, fmt.Errorf("%w: %s (valid: overwrite-all, copy-new, copy-newer)", ErrInvalidMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler so defaults render in --help
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config holds the application configuration
type Config struct {
	SourcePath      string   `arg:"-s,--source" help:"Source directory path"`
	DestPath        string   `arg:"-d,--dest" help:"Destination directory path"`
	Mode            Mode     `arg:"-m,--mode" default:"overwrite-all" help:"Copy mode: overwrite-all|copy-new|copy-newer (aliases: all|new|newer)"`
	Exclude         []string `arg:"-x,--exclude,separate" help:"Directory to skip entirely, absolute or relative to the source (repeatable)"`
	ExcludePatterns []string `arg:"--exclude-pattern,separate" help:"Glob matched against source-relative directory paths, e.g. **/node_modules (repeatable)"`
	ErrorLogPath    string   `arg:"--error-log" default:"file_copy_errors.log" help:"File that collects per-file copy errors, truncated on every run"`
	DebugLogPath    string   `arg:"--debug-log" help:"Write a timestamped debug log to this file"`
	Plain           bool     `arg:"--plain" help:"Print progress as plain lines instead of the terminal UI"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Replicate a directory tree into another, overwriting, adding new files or refreshing newer ones"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "tree-sync 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		Mode:         OverwriteAll,
		ErrorLogPath: DefaultErrorLogPath,
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.ErrorLogPath == "" {
		cfg.ErrorLogPath = DefaultErrorLogPath
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	for _, pattern := range cfg.ExcludePatterns {
		if err := ValidateExcludePattern(pattern); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ValidateExcludePattern reports whether pattern is a well-formed doublestar glob
func ValidateExcludePattern(pattern string) error {
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	return nil
}

// ValidatePaths validates that source and destination paths are valid.
// The destination may be missing; it is created by the first copy.
func (cfg *Config) ValidatePaths() error {
	if cfg.SourcePath == "" {
		return ErrSourceRequired
	}

	if cfg.DestPath == "" {
		return ErrDestRequired
	}

	sourceInfo, err := os.Stat(cfg.SourcePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", cfg.SourcePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access source path: %w", err)
	}
	if !sourceInfo.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", cfg.SourcePath)
	}

	destInfo, err := os.Stat(cfg.DestPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access destination path: %w", err)
	}
	if !destInfo.IsDir() {
		return fmt.Errorf("destination path is not a directory: %s", cfg.DestPath)
	}

	return nil
}
