package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/core/domain"
)

// writeTree creates every file in files below root, keyed by slash-separated path.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
}

func taskIn(root string, kind domain.TaskKind, sources []string, dest string) *domain.Task {
	return &domain.Task{
		Name:       domain.NewInternedString(string(kind)),
		Kind:       kind,
		Sources:    sources,
		Dest:       dest,
		WorkingDir: domain.NewInternedString(root),
	}
}
