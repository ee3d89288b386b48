package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// StateDirName is the name of the internal project state directory.
	StateDirName = ".mint"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "mint.yaml"

	// PackageFileName is the npm manifest consulted for the project name.
	PackageFileName = "package.json"

	// MinifiedSuffix is inserted before the extension of minified outputs.
	MinifiedSuffix = ".min"

	// DefaultTaskName is the task run when no target is given.
	DefaultTaskName = "default"

	// ScriptExt is the only extension the minify generator accepts.
	ScriptExt = ".js"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultWatchIgnore is used when mint.yaml sets no watch.ignore patterns.
// It covers the outputs of the usual copy, archive and minify tasks.
var DefaultWatchIgnore = []string{"build/**", "dist/**", "**/*" + MinifiedSuffix + ScriptExt}

// DefaultStatePath returns the default root directory for mint metadata.
func DefaultStatePath() string {
	return StateDirName
}

// DefaultStorePath returns the default path for the build info store.
// It joins .mint and store.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreDirName)
}

// WithinRoot joins rel onto root and fails if the result escapes root.
func WithinRoot(root, rel string) (string, error) {
	target := filepath.Join(root, rel)
	relToRoot, err := filepath.Rel(root, target)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrFailedToResolveRelativePath.Error()), "path", target)
	}
	if relToRoot == ".." || strings.HasPrefix(relToRoot, ".."+string(filepath.Separator)) {
		return "", zerr.With(ErrOutputPathOutsideRoot, "path", rel)
	}
	return target, nil
}
