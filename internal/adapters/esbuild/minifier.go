// Package esbuild adapts the esbuild transform API to mint's minify and lint
// task kinds.
package esbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Minifier = (*Minifier)(nil)

// Minifier implements ports.Minifier with esbuild's whitespace, identifier
// and syntax minification.
type Minifier struct{}

// NewMinifier creates a new Minifier.
func NewMinifier() *Minifier {
	return &Minifier{}
}

// Minify reads job.Source, minifies it and writes banner followed by the
// minified program to job.Destination, creating parent directories.
func (m *Minifier) Minify(ctx context.Context, job domain.MinifyJob, banner string) (domain.MinifyResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.MinifyResult{}, err
	}

	src, err := os.ReadFile(job.Source)
	if err != nil {
		return domain.MinifyResult{}, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", job.Source)
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            api.LoaderJS,
		Sourcefile:        filepath.Base(job.Source),
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LegalComments:     api.LegalCommentsInline,
	})
	if len(result.Errors) > 0 {
		return domain.MinifyResult{}, messageError(domain.ErrMinifyFailed, job.Source, result.Errors)
	}

	out := make([]byte, 0, len(banner)+len(result.Code))
	out = append(out, banner...)
	out = append(out, result.Code...)

	if err := os.MkdirAll(filepath.Dir(job.Destination), domain.DirPerm); err != nil {
		return domain.MinifyResult{}, zerr.With(zerr.Wrap(err, "failed to create destination directory"), "path", job.Destination)
	}
	//nolint:gosec // minified scripts are published assets
	if err := os.WriteFile(job.Destination, out, domain.FilePerm); err != nil {
		return domain.MinifyResult{}, zerr.With(zerr.Wrap(err, "failed to write minified file"), "path", job.Destination)
	}

	return domain.MinifyResult{OriginalSize: int64(len(src)), MinifiedSize: int64(len(out))}, nil
}

// messageError converts the first esbuild message into sentinel with location metadata.
func messageError(sentinel error, path string, msgs []api.Message) error {
	msg := msgs[0]
	err := zerr.With(zerr.Wrap(errors.New(msg.Text), sentinel.Error()), "file", path)
	if msg.Location != nil {
		err = zerr.With(err, "line", msg.Location.Line)
		err = zerr.With(err, "column", msg.Location.Column)
	}
	if len(msgs) > 1 {
		err = zerr.With(err, "errors", len(msgs))
	}
	return err
}

// formatMessage renders an esbuild message as "path:line:col: kind: text".
func formatMessage(path, kind string, msg api.Message) string {
	if msg.Location == nil {
		return fmt.Sprintf("%s: %s: %s", path, kind, msg.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, msg.Location.Line, msg.Location.Column+1, kind, msg.Text)
}
