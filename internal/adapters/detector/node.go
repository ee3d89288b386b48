package detector

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/linear"
	"go.trai.ch/mint/internal/adapters/tui"
	"go.trai.ch/mint/internal/core/ports"
)

// NodeID is the unique identifier for the renderer switch Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[*Switch]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{linear.NodeID},
		Run: func(ctx context.Context) (*Switch, error) {
			fallback, err := graft.Dep[*linear.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return NewSwitch(fallback, newTUI), nil
		},
	})
}

func newTUI(ctx context.Context) ports.Renderer {
	model := tui.NewModel(os.Stderr)
	return tui.NewRenderer(&model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
}
