package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvironment(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name     string
		sysEnv   []string
		tools    []string
		taskEnv  map[string]string
		expected []string
	}{
		{
			name:     "system only",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"HOME=/home/test", "PATH=/bin", "USER=test"},
		},
		{
			name:     "system filtered",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "SECRET=key", "BROKEN"},
			expected: []string{"USER=test"},
		},
		{
			name:     "tools prepended to PATH",
			sysEnv:   []string{"PATH=/bin"},
			tools:    []string{"/p/node_modules/.bin"},
			expected: []string{"PATH=/p/node_modules/.bin" + sep + "/bin"},
		},
		{
			name:     "tools without system PATH",
			tools:    []string{"/p/node_modules/.bin"},
			expected: []string{"PATH=/p/node_modules/.bin"},
		},
		{
			name:     "task overrides win",
			sysEnv:   []string{"USER=test", "PATH=/bin"},
			tools:    []string{"/tools"},
			taskEnv:  map[string]string{"PATH": "/custom", "NODE_ENV": "production"},
			expected: []string{"NODE_ENV=production", "PATH=/custom", "USER=test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.tools, tt.taskEnv))
		})
	}
}

func TestToolPaths(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, toolPaths(dir))
	assert.Empty(t, toolPaths(""))

	bin := filepath.Join(dir, LocalBinDir)
	require.NoError(t, os.MkdirAll(bin, 0o750))
	assert.Equal(t, []string{bin}, toolPaths(dir))
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "sass")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // test executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain"), []byte("x"), 0o600))

	got, err := lookPath("sass", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = lookPath("plain", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = lookPath("sass", nil)
	require.Error(t, err)
}

func TestFindExecutable_Directory(t *testing.T) {
	assert.ErrorIs(t, findExecutable(t.TempDir()), os.ErrPermission)
}

func TestPtyProcess_Resize_BoundsChecking(t *testing.T) {
	p := &ptyProcess{}
	require.Error(t, p.Resize(-1, 10))
	require.Error(t, p.Resize(10, 70000))
}
