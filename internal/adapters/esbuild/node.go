package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/fs"
	"go.trai.ch/mint/internal/core/ports"
)

const (
	// MinifierNodeID is the graft node for the esbuild Minifier.
	MinifierNodeID graft.ID = "adapter.esbuild.minifier"
	// LinterNodeID is the graft node for the lint executor.
	LinterNodeID graft.ID = "adapter.esbuild.linter"
)

func init() {
	graft.Register(graft.Node[ports.Minifier]{
		ID:        MinifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Minifier, error) {
			return NewMinifier(), nil
		},
	})

	graft.Register(graft.Node[*Linter]{
		ID:        LinterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Linter, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewLinter(resolver), nil
		},
	})
}
