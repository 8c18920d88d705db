package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

type suggestionGenerator struct{}

// Generate returns suggestions for the category, mentioning affectedPath when known.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return withPath([]string{
			"Make sure the source is readable and the destination is writable",
			"A read-only destination file must be made writable before it can be replaced",
		}, affectedPath, "Check permissions with 'ls -la %s'")
	case CategoryDiskSpace:
		return withPath([]string{
			"Free up space on the destination device",
			"Check available space with 'df -h'",
		}, affectedPath, "Check usage of the filesystem holding %s")
	case CategoryPath:
		return withPath([]string{
			"The file may have been moved or deleted while the sync was running",
			"Make sure no file in the destination has the name of a source directory",
		}, affectedPath, "Verify the path exists: %s")
	case CategoryIO:
		return []string{
			"Run the sync again; transient I/O errors often clear on retry",
			"Check the source and destination media with the system logs",
		}
	case CategoryUnknown:
		return withPath([]string{
			"Check the error log for the full message",
		}, affectedPath, "Verify the path is accessible: %s")
	default:
		return nil
	}
}

func withPath(suggestions []string, path, format string) []string {
	if path == "" {
		return suggestions
	}

	return append(suggestions, fmt.Sprintf(format, path))
}
