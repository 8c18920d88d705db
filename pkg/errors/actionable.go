// Package errors attaches a category and follow-up suggestions to file copy
// failures so the front end can tell the user what to try next.
//
//	advisor := errors.NewEnricher()
//	enriched := advisor.Enrich(copyErr, "/backup/photos/img.jpg")
//	fmt.Println(errors.FormatSuggestions(enriched))
package errors

import "strings"

// Exported constants.
const (
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryIO         ErrorCategory = "io"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	Unwrap() error
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError wrapping cause.
func NewActionableError(cause error, category ErrorCategory, suggestions []string, affectedPath string) ActionableError {
	return &actionableError{
		cause:        cause,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// FormatSuggestions formats the suggestions carried by err as a bulleted
// list. Returns empty string if err is nil or carries no suggestions.
func FormatSuggestions(err error) string {
	actionable, ok := asActionable(err)
	if !ok || len(actionable.Suggestions()) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range actionable.Suggestions() {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

type actionableError struct {
	cause        error
	category     ErrorCategory
	suggestions  []string
	affectedPath string
}

func (e *actionableError) AffectedPath() string { return e.affectedPath }
func (e *actionableError) Category() ErrorCategory { return e.category }
func (e *actionableError) Error() string { return e.cause.Error() }
func (e *actionableError) Suggestions() []string { return e.suggestions }
func (e *actionableError) Unwrap() error { return e.cause }
