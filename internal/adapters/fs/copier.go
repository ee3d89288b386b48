package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Copier)(nil)

// Copier executes copy tasks, reproducing each matched file under task.Dest
// at the same relative path.
type Copier struct {
	resolver ports.InputResolver
}

// NewCopier creates a new Copier.
func NewCopier(resolver ports.InputResolver) *Copier {
	return &Copier{resolver: resolver}
}

// Execute copies the files selected by task.Sources into task.Dest.
func (c *Copier) Execute(ctx context.Context, task *domain.Task, stdout, _ io.Writer) error {
	root := task.WorkingDir.String()

	destRoot, err := domain.WithinRoot(root, task.Dest)
	if err != nil {
		return err
	}

	files, err := c.resolver.Expand(task.Sources, root)
	if err != nil {
		return err
	}

	copied := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		src := filepath.Join(root, filepath.FromSlash(rel))
		dst := filepath.Join(destRoot, filepath.FromSlash(rel))
		if src == dst {
			continue
		}
		if err := CopyFile(src, dst); err != nil {
			return err
		}
		copied++
	}

	_, _ = fmt.Fprintf(stdout, "Copied %d %s to %s\n", copied, plural(copied, "file", "files"), task.Dest)
	return nil
}

// CopyFile copies src to dst, creating parent directories and keeping the source mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is resolved from project patterns
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "source", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "source", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "destination", dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Destination is inside the project root
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "destination", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "destination", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCopyFailed.Error()), "destination", dst)
	}
	return nil
}
