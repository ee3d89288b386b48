package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/cmd/mint/commands"
	"go.trai.ch/mint/internal/app"
	"go.trai.ch/mint/internal/build"
	"go.trai.ch/mint/internal/core/domain"
)

type mockApp struct {
	runFunc   func(ctx context.Context, targetNames []string, opts app.RunOptions) error
	watchFunc func(ctx context.Context, targetNames []string, opts app.WatchOptions) error
	planned   []string
	listed    bool
	cleaned   bool
}

func (m *mockApp) Run(ctx context.Context, targetNames []string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, targetNames []string, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, targetNames, opts)
	}
	return nil
}

func (m *mockApp) Plan(_ context.Context, taskName string) error {
	m.planned = append(m.planned, taskName)
	return nil
}

func (m *mockApp) List(_ context.Context) error {
	m.listed = true
	return nil
}

func (m *mockApp) Clean(_ context.Context) error {
	m.cleaned = true
	return nil
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedTargets []string

		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedTargets = targetNames
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "build", "package", "--no-cache", "-j", "4", "--output", "linear"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.RunOptions{NoCache: true, Jobs: 4, OutputMode: "linear"}, capturedOpts)
		assert.Equal(t, []string{"build", "package"}, capturedTargets)
	})

	t.Run("runs one task at a time by default", func(t *testing.T) {
		var capturedOpts app.RunOptions
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "minify"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.RunOptions{Jobs: 1, OutputMode: "auto"}, capturedOpts)
	})

	t.Run("rejects unknown output modes", func(t *testing.T) {
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"run", "build", "-o", "fancy"})

		err := cli.Execute(context.Background())
		require.ErrorContains(t, err, domain.ErrInvalidOutputMode.Error())
		assert.False(t, called)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"run", "target"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.ErrorContains(t, err, "simulated error")
	})

	t.Run("runs without targets", func(t *testing.T) {
		called := false
		mock := &mockApp{
			runFunc: func(_ context.Context, targetNames []string, _ app.RunOptions) error {
				called = true
				assert.Empty(t, targetNames)
				return nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, called)
		assert.NotContains(t, buf.String(), "Usage:")
	})

	t.Run("shows usage when there is no default task", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ []string, _ app.RunOptions) error {
				return domain.ErrNoTargetsSpecified
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_Watch(t *testing.T) {
	var captured app.WatchOptions
	mock := &mockApp{
		watchFunc: func(_ context.Context, targetNames []string, opts app.WatchOptions) error {
			assert.Equal(t, []string{"minify"}, targetNames)
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"watch", "minify", "--debounce", "250ms", "-n", "-o", "tui"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.WatchOptions{
		RunOptions: app.RunOptions{NoCache: true, Jobs: 1, OutputMode: "tui"},
		Debounce:   250 * time.Millisecond,
	}, captured)

	cli = commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"watch", "minify", "--output", "fancy"})
	require.ErrorContains(t, cli.Execute(context.Background()), domain.ErrInvalidOutputMode.Error())
}

func TestCommands_PlanListClean(t *testing.T) {
	mock := &mockApp{}

	for _, args := range [][]string{{"plan", "minify"}, {"ls"}, {"clean"}} {
		cli := commands.New(mock)
		cli.SetArgs(args)
		require.NoError(t, cli.Execute(context.Background()), args)
	}

	assert.Equal(t, []string{"minify"}, mock.planned)
	assert.True(t, mock.listed)
	assert.True(t, mock.cleaned)

	cli := commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"plan"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "mint version "+build.Version+" (commit: none, date: unknown)\n", buf.String())
}
