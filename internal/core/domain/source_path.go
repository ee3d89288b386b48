package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// SourcePath is a script path split into directory, stem and extension.
// Dir keeps its trailing slash ("js/admin/", "/" or ""), so joining the
// parts back together reproduces the parsed text exactly.
type SourcePath struct {
	Dir  string
	Stem string
	Ext  string
}

// ParseSourcePath splits p into its parts.
// It returns ErrMalformedPath unless p names a file with a non-empty stem
// and the exact extension ".js".
func ParseSourcePath(p string) (SourcePath, error) {
	slashed := filepath.ToSlash(p)

	var sp SourcePath
	file := slashed
	if i := strings.LastIndexByte(slashed, '/'); i >= 0 {
		sp.Dir = slashed[:i+1]
		file = slashed[i+1:]
	}

	stem, ok := strings.CutSuffix(file, ScriptExt)
	if !ok || stem == "" {
		return SourcePath{}, zerr.With(ErrMalformedPath, "path", p)
	}
	sp.Stem = stem
	sp.Ext = ScriptExt

	return sp, nil
}

// Identifier returns the directory-qualified, extension-stripped name of the script.
// Distinct source files always yield distinct identifiers.
func (s SourcePath) Identifier() string {
	return s.Dir + s.Stem
}

// Filename returns the final path segment.
func (s SourcePath) Filename() string {
	return s.Stem + s.Ext
}

// Minified returns the path with ".min" inserted before the extension.
func (s SourcePath) Minified() string {
	return s.Dir + s.Stem + MinifiedSuffix + s.Ext
}

// String returns the path as parsed, with forward slashes.
func (s SourcePath) String() string {
	return s.Dir + s.Filename()
}
