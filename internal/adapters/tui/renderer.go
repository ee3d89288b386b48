package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer drives the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated. It returns domain.ErrInterrupted
// when the user quit before Stop was called.
func (r *Renderer) Wait() error {
	if err := <-r.errCh; err != nil {
		return err
	}
	if r.model.Interrupted {
		return domain.ErrInterrupted
	}
	return nil
}

// OnPlanEmit forwards plan initialization to the TUI.
func (r *Renderer) OnPlanEmit(tasks []string, deps map[string][]string, targets []string) {
	r.program.Send(MsgInitTasks{
		Tasks:        tasks,
		Dependencies: deps,
		Targets:      targets,
	})
}

// OnTaskStart forwards task and job start events to the TUI.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(MsgTaskStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnTaskLog forwards span output to the TUI.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	// The program may hold on to data after Send returns.
	buf := make([]byte, len(data))
	copy(buf, data)
	r.program.Send(MsgTaskLog{
		SpanID: spanID,
		Data:   buf,
	})
}

// OnTaskComplete forwards completion events to the TUI.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, cached bool) {
	r.program.Send(MsgTaskComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
		Cached:  cached,
	})
}
