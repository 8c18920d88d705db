package shared

import (
	"fmt"
	"time"

	"github.com/joe/tree-sync/internal/syncengine"
)

// ============================================================================
// Formatting Functions
// These are shared by the TUI and the plain line reporter
// ============================================================================

// FormatCounts renders the new/overwritten tally line.
func FormatCounts(counters syncengine.Counters) string {
	return fmt.Sprintf("New Files: %d | Overwritten Files: %d", counters.NewFiles, counters.OverwrittenFiles)
}

// FormatDuration formats duration into human-readable format (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// FormatSummary renders the closing line of a run.
func FormatSummary(result syncengine.Result) string {
	switch result.State {
	case syncengine.StateCompleted:
		return fmt.Sprintf("File copy completed! %d files processed.", result.Counters.FilesProcessed)
	case syncengine.StateStopped:
		return fmt.Sprintf("File copy stopped. %d of %d files processed.",
			result.Counters.FilesProcessed, result.Counters.TotalFiles)
	case syncengine.StateFailed:
		return fmt.Sprintf("File copy failed after %d files.", result.Counters.FilesProcessed)
	default:
		return ""
	}
}

// TruncatePath shortens path from the left so it fits in maxWidth,
// keeping the file name visible.
// Width is counted in runes, so multi-byte names are never cut mid-character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if maxWidth <= ProgressEllipsisLength || len(runes) <= maxWidth {
		return path
	}

	return "..." + string(runes[len(runes)-(maxWidth-ProgressEllipsisLength):])
}
