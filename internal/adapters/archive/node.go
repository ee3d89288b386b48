package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/fs"
	"go.trai.ch/mint/internal/core/ports"
)

// NodeID is the unique identifier for the archive executor Graft node.
const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[*Archiver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Archiver, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewArchiver(resolver), nil
		},
	})
}
