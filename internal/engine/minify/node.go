package minify

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/esbuild"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/core/ports"
)

// NodeID is the unique identifier for the minify action Graft node.
const NodeID graft.ID = "engine.minify"

func init() {
	graft.Register(graft.Node[*Action]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			fs.HasherNodeID,
			esbuild.MinifierNodeID,
			cas.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Action, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			minifier, err := graft.Dep[ports.Minifier](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewAction(resolver, NewRunner(minifier, hasher, store, tracer)), nil
		},
	})
}
