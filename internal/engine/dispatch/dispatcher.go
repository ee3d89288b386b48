// Package dispatch routes each task to the executor registered for its kind.
package dispatch

import (
	"context"
	"io"
	"maps"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Dispatcher)(nil)

// Dispatcher implements ports.Executor by delegating on task.Kind.
// Alias tasks only group dependencies and never reach an executor.
type Dispatcher struct {
	executors map[domain.TaskKind]ports.Executor
}

// NewDispatcher creates a Dispatcher over executors.
func NewDispatcher(executors map[domain.TaskKind]ports.Executor) *Dispatcher {
	return &Dispatcher{executors: maps.Clone(executors)}
}

// Execute runs task with the executor for its kind.
func (d *Dispatcher) Execute(ctx context.Context, task *domain.Task, stdout, stderr io.Writer) error {
	if task.Kind == domain.KindAlias {
		return nil
	}

	executor, ok := d.executors[task.Kind]
	if !ok {
		err := zerr.With(domain.ErrUnknownExecutor, "kind", string(task.Kind))
		return zerr.With(err, "task", task.Name.String())
	}
	return executor.Execute(ctx, task, stdout, stderr)
}
