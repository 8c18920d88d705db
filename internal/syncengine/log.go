package syncengine

import (
	"fmt"
	"os"
	"time"
)

// EnableFileLogging enables logging to a file for debugging
func (e *Engine) EnableFileLogging(logPath string) error {
	f, err := os.Create(logPath) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	e.logMu.Lock()
	e.logFile = f
	e.logMu.Unlock()

	e.logToFile(fmt.Sprintf("=== Sync Log Started: %s ===", time.Now().Format(time.RFC3339)))
	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	e.logToFile("Source: " + cfg.SourceRoot)
	e.logToFile("Destination: " + cfg.DestRoot)
	e.logToFile(fmt.Sprintf("Mode: %v, Excluded: %v, Patterns: %v", cfg.Mode, cfg.ExcludedDirs, cfg.ExcludePatterns))
	e.logToFile("")

	return nil
}

// CloseLog closes the log file if open
func (e *Engine) CloseLog() {
	e.logMu.Lock()
	defer e.logMu.Unlock()

	if e.logFile != nil {
		timestamp := time.Now().Format("15:04:05.000")
		_, _ = fmt.Fprintf(e.logFile, "[%s] === Sync Log Ended: %s ===\n", timestamp, time.Now().Format(time.RFC3339))
		_ = e.logFile.Close()
		e.logFile = nil
	}
}

// logToFile writes a message to the log file (if enabled)
func (e *Engine) logToFile(message string) {
	e.logMu.Lock()
	defer e.logMu.Unlock()

	if e.logFile != nil {
		timestamp := time.Now().Format("15:04:05.000")
		_, _ = fmt.Fprintf(e.logFile, "[%s] %s\n", timestamp, message)
	}
}
