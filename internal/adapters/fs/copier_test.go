package fs_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/adapters/fs"
	"go.trai.ch/mint/internal/core/domain"
)

func TestCopier_Execute(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"readme.txt":            "readme",
		"plugin.php":            "<?php",
		"js/app.js":             "app",
		"admin/scss/admin.scss": "scss",
		"admin/admin.php":       "admin",
	})

	var stdout bytes.Buffer
	copier := fs.NewCopier(fs.NewResolver(fs.NewWalker()))
	task := taskIn(root, domain.KindCopy, []string{"readme.txt", "*.php", "js/**", "admin/**", "!**/scss/**"}, "build")

	require.NoError(t, copier.Execute(t.Context(), task, &stdout, io.Discard))

	for _, rel := range []string{"readme.txt", "plugin.php", "js/app.js", "admin/admin.php"} {
		got, err := os.ReadFile(filepath.Join(root, "build", filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		want, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, want, got, rel)
	}
	assert.NoFileExists(t, filepath.Join(root, "build", "admin", "scss", "admin.scss"))
	assert.Equal(t, "Copied 4 files to build\n", stdout.String())
}

func TestCopier_Execute_MissingLiteral(t *testing.T) {
	root := t.TempDir()
	copier := fs.NewCopier(fs.NewResolver(fs.NewWalker()))
	task := taskIn(root, domain.KindCopy, []string{"license.txt"}, "build")

	err := copier.Execute(t.Context(), task, io.Discard, io.Discard)

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInputNotFound.Error())
}

func TestCopier_Execute_DestOutsideRoot(t *testing.T) {
	root := t.TempDir()
	copier := fs.NewCopier(fs.NewResolver(fs.NewWalker()))
	task := taskIn(root, domain.KindCopy, []string{"*.txt"}, "../elsewhere")

	err := copier.Execute(t.Context(), task, io.Discard, io.Discard)

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrOutputPathOutsideRoot.Error())
}

func TestCopier_Execute_Canceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})
	copier := fs.NewCopier(fs.NewResolver(fs.NewWalker()))
	task := taskIn(root, domain.KindCopy, []string{"*.txt"}, "build")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := copier.Execute(ctx, task, io.Discard, io.Discard)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(root, "build", "a.txt"))
}
