// Package archive packs release archives for archive tasks. The destination
// extension selects the format: ".zip" or ".tar.zst".
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Archiver)(nil)

// Format is a supported archive container.
type Format string

const (
	// FormatZip is a deflate-compressed zip file.
	FormatZip Format = ".zip"
	// FormatTarZst is a tarball compressed with zstd.
	FormatTarZst Format = ".tar.zst"
)

// FormatFor returns the archive format implied by dest's extension.
func FormatFor(dest string) (Format, error) {
	lower := strings.ToLower(dest)
	switch {
	case strings.HasSuffix(lower, string(FormatTarZst)):
		return FormatTarZst, nil
	case strings.HasSuffix(lower, string(FormatZip)):
		return FormatZip, nil
	default:
		return "", zerr.With(domain.ErrUnsupportedArchive, "dest", dest)
	}
}

// entry is one file to be archived.
type entry struct {
	name string
	path string
	info os.FileInfo
}

// Archiver implements ports.Executor for archive tasks. Every matched file is
// stored below a top-level folder named after the project.
type Archiver struct {
	resolver ports.InputResolver
}

// NewArchiver creates a new Archiver.
func NewArchiver(resolver ports.InputResolver) *Archiver {
	return &Archiver{resolver: resolver}
}

// Execute writes the archive named by task.Dest.
func (a *Archiver) Execute(ctx context.Context, task *domain.Task, stdout, _ io.Writer) error {
	root := task.WorkingDir.String()

	format, err := FormatFor(task.Dest)
	if err != nil {
		return err
	}
	dest, err := domain.WithinRoot(root, task.Dest)
	if err != nil {
		return err
	}

	files, err := a.resolver.Expand(task.Sources, root)
	if err != nil {
		return err
	}

	destRel := filepath.ToSlash(filepath.Clean(task.Dest))
	entries := make([]entry, 0, len(files))
	for _, rel := range files {
		if rel == destRel {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", rel)
		}
		entries = append(entries, entry{name: entryName(task.Project, rel), path: abs, info: info})
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dest", task.Dest)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".archive-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dest", task.Dest)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	switch format {
	case FormatZip:
		err = writeZip(ctx, tmp, entries)
	case FormatTarZst:
		err = writeTarZst(ctx, tmp, entries)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dest", task.Dest)
	}

	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dest", task.Dest)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dest", task.Dest)
	}

	_, _ = fmt.Fprintf(stdout, "Archived %d %s to %s\n", len(entries), plural(len(entries)), task.Dest)
	return nil
}

func entryName(project, rel string) string {
	if project == "" {
		return rel
	}
	return path.Join(project, rel)
}

func writeZip(ctx context.Context, w io.Writer, entries []entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return err
		}
		hdr.Name = e.name
		hdr.Method = zip.Deflate

		dst, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if err := copyFrom(dst, e.path); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeTarZst(ctx context.Context, w io.Writer, entries []entry) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	tw := tar.NewWriter(enc)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			_ = enc.Close()
			return err
		}

		hdr, err := tar.FileInfoHeader(e.info, "")
		if err != nil {
			_ = enc.Close()
			return err
		}
		hdr.Name = e.name
		hdr.Uname, hdr.Gname = "", ""
		hdr.Uid, hdr.Gid = 0, 0

		if err := tw.WriteHeader(hdr); err != nil {
			_ = enc.Close()
			return err
		}
		if err := copyFrom(tw, e.path); err != nil {
			_ = enc.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func copyFrom(dst io.Writer, path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from pattern expansion below the project root
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only file

	_, err = io.Copy(dst, f)
	return err
}

func plural(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
