package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/adapters/tui"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestRenderer(t *testing.T) (*tui.Renderer, *tui.Model) {
	t.Helper()
	model := tui.NewModel(io.Discard)
	renderer := tui.NewRenderer(
		&model,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	require.NoError(t, renderer.Start(context.Background()))
	return renderer, &model
}

func TestRenderer_Lifecycle(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())
}

func TestRenderer_ForwardsEvents(t *testing.T) {
	renderer, model := newTestRenderer(t)
	start := time.Now()

	renderer.Program().Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	renderer.OnPlanEmit([]string{"clean", "minify"}, map[string][]string{"minify": {"clean"}}, []string{"minify"})
	renderer.OnTaskStart("s-minify", "", "minify", start)
	renderer.OnTaskStart("s-job", "s-minify", "minify:js/app", start)
	renderer.OnTaskLog("s-job", []byte("js/app created\n"))
	renderer.OnTaskComplete("s-job", start.Add(time.Millisecond), nil, false)
	renderer.OnTaskComplete("s-minify", start.Add(2*time.Millisecond), zerr.New("boom"), false)

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())

	require.Contains(t, model.TaskMap, "minify:js/app")
	assert.Equal(t, tui.StatusDone, model.TaskMap["minify:js/app"].Status)
	assert.Equal(t, tui.StatusError, model.TaskMap["minify"].Status)
	assert.Contains(t, model.TaskMap["minify:js/app"].Term.View(), "js/app created")
}

func TestRenderer_UserQuitInterruptsRun(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	renderer.Program().Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.ErrorIs(t, renderer.Wait(), domain.ErrInterrupted)
}
