package esbuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Linter)(nil)

// Linter executes lint tasks by parsing every matched script. Syntax errors
// fail the task; warnings are reported on stderr.
type Linter struct {
	resolver ports.InputResolver
}

// NewLinter creates a new Linter.
func NewLinter(resolver ports.InputResolver) *Linter {
	return &Linter{resolver: resolver}
}

// Execute checks every file selected by task.Sources.
// All files are checked before the first failure is returned.
func (l *Linter) Execute(ctx context.Context, task *domain.Task, stdout, stderr io.Writer) error {
	root := task.WorkingDir.String()
	files, err := l.resolver.Expand(task.Sources, root)
	if err != nil {
		return err
	}

	var firstErr error
	failed, warnings := 0, 0

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", rel)
		}

		result := api.Transform(string(src), api.TransformOptions{
			Loader:     api.LoaderJS,
			Sourcefile: rel,
			LogLevel:   api.LogLevelSilent,
		})

		for _, w := range result.Warnings {
			_, _ = fmt.Fprintln(stderr, formatMessage(rel, "warning", w))
		}
		warnings += len(result.Warnings)

		if len(result.Errors) == 0 {
			continue
		}
		for _, e := range result.Errors {
			_, _ = fmt.Fprintln(stderr, formatMessage(rel, "error", e))
		}
		failed++
		if firstErr == nil {
			firstErr = messageError(domain.ErrLintFailed, rel, result.Errors)
		}
	}

	if firstErr != nil {
		return zerr.With(firstErr, "failed_files", failed)
	}

	_, _ = fmt.Fprintf(stdout, "%d %s lint free", len(files), plural(len(files), "file", "files"))
	if warnings > 0 {
		_, _ = fmt.Fprintf(stdout, ", %d %s", warnings, plural(warnings, "warning", "warnings"))
	}
	_, _ = fmt.Fprintln(stdout)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
