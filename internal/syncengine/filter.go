package syncengine

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter decides which source directories are left out of a run.
// An excluded directory is never descended into, so every file beneath it is
// skipped by both the counting and the copying pass.
type PathFilter struct {
	root     string
	dirs     []string
	patterns []string
}

// NewPathFilter builds a filter for the tree at root. dirs are absolute
// directories, or paths relative to root. patterns are doublestar globs
// matched case-insensitively against slash-separated root-relative paths.
func NewPathFilter(root string, dirs, patterns []string) *PathFilter {
	root = filepath.Clean(root)

	filter := &PathFilter{
		root:     root,
		dirs:     make([]string, 0, len(dirs)),
		patterns: make([]string, 0, len(patterns)),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}

		filter.dirs = append(filter.dirs, filepath.Clean(dir))
	}

	for _, pattern := range patterns {
		if pattern != "" {
			filter.patterns = append(filter.patterns, strings.ToLower(filepath.ToSlash(pattern)))
		}
	}

	return filter
}

// IsExcluded reports whether dirPath equals or lies beneath an excluded
// directory, or matches an exclude pattern. Containment is checked on path
// segments: excluding /src/tmp does not exclude /src/tmp2.
func (f *PathFilter) IsExcluded(dirPath string) bool {
	dirPath = filepath.Clean(dirPath)

	for _, excluded := range f.dirs {
		if isWithin(dirPath, excluded) {
			return true
		}
	}

	if len(f.patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(f.root, dirPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	normalized := strings.ToLower(filepath.ToSlash(rel))

	for _, pattern := range f.patterns {
		// Invalid patterns are rejected by config validation; treat them as non-matching here
		matched, matchErr := doublestar.Match(pattern, normalized)
		if matchErr == nil && matched {
			return true
		}
	}

	return false
}

// isWithin reports whether path is dir or a descendant of dir.
func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}

	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}

	return strings.HasPrefix(path, dir)
}
