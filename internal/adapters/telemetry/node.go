package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/detector"
	"go.trai.ch/mint/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			renderer, err := graft.Dep[*detector.Switch](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(renderer), nil
		},
	})
}
