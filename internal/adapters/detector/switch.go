package detector

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/mint/internal/core/ports"
)

var _ ports.Renderer = (*Switch)(nil)

// TUIFactory builds an interactive renderer bound to ctx.
type TUIFactory func(ctx context.Context) ports.Renderer

// Switch is the renderer telemetry reports to. It forwards every call to the
// renderer selected for the current run, or to the linear fallback between runs.
type Switch struct {
	mu       sync.RWMutex
	active   ports.Renderer
	fallback ports.Renderer
	newTUI   TUIFactory
	detect   func() OutputMode
}

// NewSwitch creates a Switch that starts out on fallback.
func NewSwitch(fallback ports.Renderer, newTUI TUIFactory) *Switch {
	return &Switch{
		active:   fallback,
		fallback: fallback,
		newTUI:   newTUI,
		detect:   DetectEnvironment,
	}
}

// Select resolves flag against the environment and activates the matching
// renderer. The returned restore func switches back to the fallback.
func (s *Switch) Select(ctx context.Context, flag string) (func(), error) {
	requested, err := ParseMode(flag)
	if err != nil {
		return nil, err
	}

	if ResolveMode(s.detect(), requested) != ModeTUI {
		s.use(s.fallback)
		return func() {}, nil
	}

	s.use(s.newTUI(ctx))
	return func() { s.use(s.fallback) }, nil
}

func (s *Switch) use(r ports.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = r
}

func (s *Switch) current() ports.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Start starts the active renderer.
func (s *Switch) Start(ctx context.Context) error {
	return s.current().Start(ctx)
}

// Stop stops the active renderer.
func (s *Switch) Stop() error {
	return s.current().Stop()
}

// Wait waits for the active renderer.
func (s *Switch) Wait() error {
	return s.current().Wait()
}

// OnPlanEmit forwards to the active renderer.
func (s *Switch) OnPlanEmit(tasks []string, deps map[string][]string, targets []string) {
	s.current().OnPlanEmit(tasks, deps, targets)
}

// OnTaskStart forwards to the active renderer.
func (s *Switch) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	s.current().OnTaskStart(spanID, parentID, name, startTime)
}

// OnTaskLog forwards to the active renderer.
func (s *Switch) OnTaskLog(spanID string, data []byte) {
	s.current().OnTaskLog(spanID, data)
}

// OnTaskComplete forwards to the active renderer.
func (s *Switch) OnTaskComplete(spanID string, endTime time.Time, err error, cached bool) {
	s.current().OnTaskComplete(spanID, endTime, err, cached)
}
