package fs

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Cleaner)(nil)

// Cleaner executes clean tasks. Every file or directory selected by the task
// sources is removed; a selected directory is removed with its contents.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Execute removes the paths selected by task.Sources below the task's working directory.
func (c *Cleaner) Execute(ctx context.Context, task *domain.Task, stdout, _ io.Writer) error {
	root := task.WorkingDir.String()
	compiled, err := compilePatterns(task.Sources)
	if err != nil {
		return err
	}

	var targets []string
	walkErr := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() && SkipDir(d.Name()) {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
		}
		if !selects(compiled, filepath.ToSlash(rel)) {
			return nil
		}

		targets = append(targets, path)
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(target); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", target)
		}
	}

	_, _ = fmt.Fprintf(stdout, "Cleaned %d %s\n", len(targets), plural(len(targets), "path", "paths"))
	return nil
}

// selects applies compiled patterns in order; later patterns override earlier ones.
func selects(compiled []pattern, rel string) bool {
	selected := false
	for _, p := range compiled {
		if p.match(rel) {
			selected = !p.negate
		}
	}
	return selected
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
