package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/engine/dispatch"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			dispatch.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(executor, store, hasher, resolver, tracer, log), nil
		},
	})
}
