package shared

import (
	"fmt"
	"strings"

	"github.com/joe/tree-sync/pkg/errors"
)

// Error display limits for different screen contexts
const (
	// ErrorLimitInProgress is for the running view
	ErrorLimitInProgress = 3

	// ErrorLimitComplete is for the summary after a finished run
	ErrorLimitComplete = 10
)

// ErrorDisplayContext defines the context in which errors are being displayed
type ErrorDisplayContext int

const (
	// ContextInProgress indicates errors shown while the run is going
	ContextInProgress ErrorDisplayContext = iota
	// ContextComplete indicates errors shown once the run has ended
	ContextComplete
)

// FailedFile is one file the run could not copy.
type FailedFile struct {
	SourcePath string
	DestPath   string
	Err        error
}

// ErrorListConfig holds configuration for rendering error lists
type ErrorListConfig struct {
	// Errors is the list of failed files to display
	Errors []FailedFile

	// Context determines the display limit and overflow message
	Context ErrorDisplayContext

	// MaxWidth is the maximum width for path and error message display (0 = no limit)
	MaxWidth int
}

// RenderErrorList renders failed files with their actionable suggestions,
// limited according to the display context.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Errors) == 0 {
		return ""
	}

	var builder strings.Builder

	enricher := errors.NewEnricher()
	limit := getErrorLimit(config.Context)

	for i, failed := range config.Errors {
		if i >= limit {
			fmt.Fprintf(&builder, "%s\n", getOverflowMessage(config.Context, len(config.Errors)-limit))

			break
		}

		enrichedErr := enricher.Enrich(failed.Err, failed.SourcePath)

		displayPath := failed.SourcePath
		if config.MaxWidth > 0 {
			displayPath = TruncatePath(displayPath, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", errorSymbol(), FileItemErrorStyle().Render(displayPath))

		errMsg := enrichedErr.Error()
		if config.MaxWidth > ProgressEllipsisLength && len(errMsg) > config.MaxWidth {
			errMsg = errMsg[:config.MaxWidth-ProgressEllipsisLength] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)

		suggestions := errors.FormatSuggestions(enrichedErr)
		if suggestions != "" {
			fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
		}
	}

	return builder.String()
}

func errorSymbol() string {
	if colorsDisabled {
		return "x"
	}

	return ErrorStyle().Render("✗")
}

func getErrorLimit(context ErrorDisplayContext) int {
	if context == ContextInProgress {
		return ErrorLimitInProgress
	}

	return ErrorLimitComplete
}

func getOverflowMessage(context ErrorDisplayContext, remaining int) string {
	if context == ContextInProgress {
		return fmt.Sprintf("  ... and %d more (see error log)", remaining)
	}

	return fmt.Sprintf("... and %d more error(s)", remaining)
}
