package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	assert.Equal(t, ".mint", domain.DefaultStatePath())
	assert.Equal(t, filepath.Join(".mint", "store"), domain.DefaultStorePath())
	assert.Equal(t, "minify/js/app/main", domain.JobKey("minify", "js/app/main"))
}

func TestTaskKind_Valid(t *testing.T) {
	for _, k := range domain.TaskKinds {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, domain.TaskKind("uglify").Valid())
	assert.False(t, domain.TaskKind("").Valid())
}

func TestWithinRoot(t *testing.T) {
	root := filepath.FromSlash("/srv/plugin")

	for _, rel := range []string{"", ".", "build", "build/js", "build/../dist"} {
		got, err := domain.WithinRoot(root, rel)
		require.NoError(t, err, rel)
		assert.Equal(t, filepath.Join(root, rel), got)
	}

	for _, rel := range []string{"..", "../x", "build/../../x"} {
		_, err := domain.WithinRoot(root, rel)
		require.ErrorContains(t, err, domain.ErrOutputPathOutsideRoot.Error(), rel)
	}
}
