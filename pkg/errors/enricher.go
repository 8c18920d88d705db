package errors

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"syscall"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with the default classifier and suggestions.
func NewEnricher() Enricher {
	return &enricher{generator: NewSuggestionGenerator()}
}

// Classify maps an error to a category. Wrapped syscall errors are checked
// first; the message text is the fallback for errors that lost their type.
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	switch {
	case errors.Is(err, os.ErrPermission), errors.Is(err, syscall.EROFS):
		return CategoryPermission
	case errors.Is(err, syscall.ENOSPC), errors.Is(err, syscall.EDQUOT):
		return CategoryDiskSpace
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR):
		return CategoryPath
	case errors.Is(err, syscall.EIO):
		return CategoryIO
	}

	lowerMsg := strings.ToLower(err.Error())

	for _, rule := range messageRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(lowerMsg, fragment) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Ordered so the most specific categories win
	messageRules = []struct {
		category  ErrorCategory
		fragments []string
	}{
		{CategoryPermission, []string{"permission denied", "access denied", "operation not permitted", "read-only file system"}},
		{CategoryDiskSpace, []string{"no space left on device", "disk full", "quota exceeded"}},
		{CategoryPath, []string{"no such file or directory", "not a directory", "is a directory", "file not found"}},
		{CategoryIO, []string{"input/output error", "i/o error", "short write"}},
	}

	//nolint:gochecknoglobals // Compiled once, shared across enrichers
	pathPattern = regexp.MustCompile(`\b\w+\s+((?:[A-Za-z]:)?[./\\][^\s:]*)`)
)

type enricher struct {
	generator SuggestionGenerator
}

// Enrich returns an ActionableError wrapping err. Errors that are already
// actionable are returned unchanged. When affectedPath is empty the first
// path found in the message is used.
func (e *enricher) Enrich(err error, affectedPath string) error {
	if err == nil {
		return nil
	}

	if existing, ok := asActionable(err); ok {
		return existing
	}

	if affectedPath == "" {
		affectedPath = extractPath(err.Error())
	}

	category := Classify(err)

	return NewActionableError(err, category, e.generator.Generate(category, affectedPath), affectedPath)
}

func asActionable(err error) (ActionableError, bool) {
	var actionable ActionableError
	if err == nil || !errors.As(err, &actionable) {
		return nil, false
	}

	return actionable, true
}

// extractPath pulls the first path out of messages such as
// "open /srv/data/a.txt: permission denied".
func extractPath(errorMsg string) string {
	matches := pathPattern.FindStringSubmatch(errorMsg)
	if len(matches) < 2 { //nolint:mnd // full match plus one group
		return ""
	}

	return strings.TrimSpace(matches[1])
}
