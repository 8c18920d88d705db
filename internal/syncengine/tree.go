package syncengine

import (
	"errors"
	"os"

	"github.com/joe/tree-sync/pkg/filesystem"
)

// errStopWalk ends a walk early without it being a traversal failure.
var errStopWalk = errors.New("walk stopped")

// walkTree visits every directory under root that the filter keeps, top-down
// in name order, handing visit the directory and its files. Both passes of a
// run go through here so they always agree on what is in scope.
//
// Only a failure on root itself ends the walk. A directory below root that
// cannot be read is left out together with its subtree and handed to
// unreadable, which may be nil.
func walkTree(
	fsys filesystem.FileSystem,
	root string,
	filter *PathFilter,
	visit func(dir string, files []os.FileInfo) error,
	unreadable func(dir string, err error),
) error {
	skip := func(dir string, err error) {
		if unreadable != nil {
			unreadable(dir, err)
		}
	}

	walker := filesystem.Walk(fsys, root)

	for walker.Step() {
		dir := walker.Path()

		if err := walker.Err(); err != nil {
			if dir == root {
				return &RunError{Path: root, Err: err}
			}

			skip(dir, err)

			continue
		}

		if !walker.Stat().IsDir() {
			if dir == root {
				return &RunError{Path: root, Err: ErrSourceNotDir}
			}

			continue
		}

		if dir != root && filter.IsExcluded(dir) {
			walker.SkipDir()

			continue
		}

		files, err := filesystem.ListFiles(fsys, dir)
		if err != nil {
			if dir == root {
				return &RunError{Path: root, Err: err}
			}

			walker.SkipDir()
			skip(dir, err)

			continue
		}

		err = visit(dir, files)
		if err != nil {
			return err
		}
	}

	return nil
}
