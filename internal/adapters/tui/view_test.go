package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mint/internal/adapters/tui"
	"go.trai.ch/zerr"
)

func TestModel_View(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	t.Run("before sizing", func(t *testing.T) {
		model := tui.NewModel(nil)
		assert.Equal(t, "Initializing...", model.View())
	})

	t.Run("task tree with jobs", func(t *testing.T) {
		m := newBuildModel(t)
		m, _ = send(t, m,
			tui.MsgTaskStart{SpanID: "s-minify", Name: "minify"},
			tui.MsgTaskStart{SpanID: "s-job", ParentID: "s-minify", Name: "minify:css/site"},
			tui.MsgTaskLog{SpanID: "s-job", Data: []byte("css/site created\n")},
		)

		view := m.View()
		assert.Contains(t, view, "TASKS")
		assert.Contains(t, view, "build")
		assert.Contains(t, view, "minify:css/site")
		assert.Contains(t, view, "LOGS: minify:css/site (Following)")
		assert.Contains(t, view, "css/site created")
	})

	t.Run("waiting for output", func(t *testing.T) {
		m := newBuildModel(t)
		assert.Contains(t, m.View(), "LOGS (Waiting...)")
	})

	t.Run("manual selection", func(t *testing.T) {
		m := newBuildModel(t)
		m, _ = send(t, m,
			tui.MsgTaskStart{SpanID: "s1", Name: "clean"},
			tui.MsgTaskComplete{SpanID: "s1", Err: zerr.New("boom")},
			key("down"),
		)
		assert.Contains(t, m.View(), "LOGS: minify (Manual)")
	})
}
