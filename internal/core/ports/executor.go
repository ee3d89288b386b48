// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/mint/internal/core/domain"
)

// Executor defines the interface for executing tasks.
// Each task kind is served by its own Executor; a dispatcher routes by kind.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given task.
	// Human-readable progress goes to stdout, diagnostics to stderr.
	//
	// It returns an error if the task execution fails.
	Execute(ctx context.Context, task *domain.Task, stdout, stderr io.Writer) error
}

type noCacheKey struct{}

// WithNoCache marks ctx so that executors keeping their own build records
// run all work instead of skipping up-to-date outputs.
func WithNoCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

// NoCache reports whether ctx was marked by WithNoCache.
func NoCache(ctx context.Context) bool {
	v, _ := ctx.Value(noCacheKey{}).(bool)
	return v
}
