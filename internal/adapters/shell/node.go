package shell

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the exec executor Graft node.
const NodeID graft.ID = "adapter.executor.shell"

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Executor, error) {
			return NewExecutor(), nil
		},
	})
}
