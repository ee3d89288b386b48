// Package fs provides file system adapters for walking, matching, hashing,
// cleaning and copying project files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":              true,
	".jj":               true,
	domain.StateDirName: true,
	"node_modules":      true,
}

// Walker provides file walking functionality.
type Walker struct {
	walkDir func(root string, fn fs.WalkDirFunc) error
}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{walkDir: filepath.WalkDir}
}

// WalkFiles yields every regular file below root in lexical order, skipping
// version control, dependency and mint state directories.
// Yielded paths include root. A directory that cannot be read ends the walk
// with a single non-nil error, after the files already yielded.
func (w *Walker) WalkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := w.walkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "root", root))
		}
	}
}

// SkipDir reports whether a directory with the given base name is excluded from walks.
func SkipDir(name string) bool {
	return skippedDirs[name]
}
