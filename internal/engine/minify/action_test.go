package minify_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/adapters/cas"
	"go.trai.ch/mint/internal/adapters/esbuild"
	"go.trai.ch/mint/internal/adapters/fs"
	"go.trai.ch/mint/internal/adapters/telemetry"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/engine/minify"
)

func writeScripts(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
}

func newAction() *minify.Action {
	walker := fs.NewWalker()
	resolver := fs.NewResolver(walker)
	runner := minify.NewRunner(esbuild.NewMinifier(), fs.NewHasher(walker), cas.NewStore(), telemetry.NewNoOpTracer())
	action := minify.NewAction(resolver, runner)
	action.Now = func() time.Time { return fixedTime }
	return action
}

func minifyTask(root string, sources ...string) *domain.Task {
	return &domain.Task{
		Name:       domain.NewInternedString("minify"),
		Kind:       domain.KindMinify,
		Project:    "csp",
		Sources:    sources,
		WorkingDir: domain.NewInternedString(root),
	}
}

func TestAction_MinifiesSiblingFiles(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{
		"js/admin/foo.js":      "function greet(name) {\n  return 'hello ' + name;\n}\ngreet('admin');\n",
		"js/public/bar.js":     "var answer = 40 + 2;\nconsole.log(answer);\n",
		"js/public/old.min.js": "var x=1;",
	})

	var stdout bytes.Buffer
	err := newAction().Execute(context.Background(), minifyTask(root, "js/**/*.js", "!js/**/*min.js"), &stdout, &stdout)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "2 files created ("), stdout.String())

	out, err := os.ReadFile(filepath.Join(root, "js", "admin", "foo.min.js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "/*! csp foo.js 2026-03-14 9:26:53 PM */\n"), string(out))
	assert.NotContains(t, string(out), "\n  return")

	assert.FileExists(t, filepath.Join(root, "js", "public", "bar.min.js"))
	assert.NoFileExists(t, filepath.Join(root, "js", "public", "old.min.min.js"))
}

func TestAction_SecondRunIsUpToDate(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{"js/app.js": "var a = 1 + 2;\n"})
	task := minifyTask(root, "js/*.js", "!js/*.min.js")
	action := newAction()

	var first, second, forced bytes.Buffer
	require.NoError(t, action.Execute(context.Background(), task, &first, &first))
	require.NoError(t, action.Execute(context.Background(), task, &second, &second))
	assert.Equal(t, "0 files created, 1 up to date\n", second.String())

	require.NoError(t, action.Execute(ports.WithNoCache(context.Background()), task, &forced, &forced))
	assert.True(t, strings.HasPrefix(forced.String(), "1 file created"), forced.String())

	// Editing the source invalidates the record.
	writeScripts(t, root, map[string]string{"js/app.js": "var b = 3 + 4;\n"})
	var edited bytes.Buffer
	require.NoError(t, action.Execute(context.Background(), task, &edited, &edited))
	assert.True(t, strings.HasPrefix(edited.String(), "1 file created"), edited.String())
}

func TestAction_DestinationRoot(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{"js/app.js": "var a = 1;\n"})
	task := minifyTask(root, "js/*.js")
	task.Dest = "build"

	var stdout bytes.Buffer
	require.NoError(t, newAction().Execute(context.Background(), task, &stdout, &stdout))
	assert.FileExists(t, filepath.Join(root, "build", "js", "app.min.js"))
	assert.NoFileExists(t, filepath.Join(root, "js", "app.min.js"))
}

func TestAction_SyntaxErrorFailsTask(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{
		"js/a.js": "var ok = 1;\n",
		"js/b.js": "function (\n",
		"js/c.js": "var never = 1;\n",
	})

	var stdout bytes.Buffer
	err := newAction().Execute(context.Background(), minifyTask(root, "js/*.js"), &stdout, &stdout)
	require.ErrorContains(t, err, domain.ErrMinifyJobFailed.Error())
	require.ErrorContains(t, err, domain.ErrMinifyFailed.Error())

	assert.FileExists(t, filepath.Join(root, "js", "a.min.js"))
	assert.NoFileExists(t, filepath.Join(root, "js", "c.min.js"))
}

func TestAction_NoMatchesIsNoOp(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{"css/style.css": "a{}"})

	var stdout bytes.Buffer
	require.NoError(t, newAction().Execute(context.Background(), minifyTask(root, "js/**/*.js"), &stdout, &stdout))
	assert.Equal(t, "No scripts to minify\n", stdout.String())
}

func TestAction_NonScriptSourceIsMalformed(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{
		"js/app.js":  "var a = 1;\n",
		"js/app.map": "{}",
	})

	var stdout bytes.Buffer
	err := newAction().Execute(context.Background(), minifyTask(root, "js/*"), &stdout, &stdout)
	require.ErrorContains(t, err, domain.ErrMalformedPath.Error())
	assert.NoFileExists(t, filepath.Join(root, "js", "app.min.js"))
}

func TestAction_PlanRejectsOtherKinds(t *testing.T) {
	task := minifyTask(t.TempDir(), "js/*.js")
	task.Kind = domain.KindLint

	_, err := newAction().Plan(task)
	require.ErrorContains(t, err, domain.ErrNotMinifyTask.Error())
}

func TestAction_DestOutsideRoot(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, map[string]string{"js/app.js": "var a = 1;\n"})

	for _, dest := range []string{"../outside", "build/../../outside"} {
		t.Run(dest, func(t *testing.T) {
			task := minifyTask(root, "js/**/*.js")
			task.Dest = dest

			_, err := newAction().Plan(task)
			require.ErrorContains(t, err, domain.ErrOutputPathOutsideRoot.Error())

			var stdout bytes.Buffer
			err = newAction().Execute(context.Background(), task, &stdout, &stdout)
			require.ErrorContains(t, err, domain.ErrOutputPathOutsideRoot.Error())
			assert.NoDirExists(t, filepath.Join(filepath.Dir(root), "outside"))
		})
	}
}
