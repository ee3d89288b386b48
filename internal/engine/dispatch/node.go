package dispatch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/archive" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/esbuild" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/fs"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/adapters/shell"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/engine/minify"
)

// NodeID is the unique identifier for the dispatcher Graft node.
const NodeID graft.ID = "engine.dispatch"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.CleanerNodeID,
			fs.CopierNodeID,
			esbuild.LinterNodeID,
			archive.NodeID,
			minify.NodeID,
		},
		Run: func(ctx context.Context) (ports.Executor, error) {
			execShell, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}

			cleaner, err := graft.Dep[*fs.Cleaner](ctx)
			if err != nil {
				return nil, err
			}

			copier, err := graft.Dep[*fs.Copier](ctx)
			if err != nil {
				return nil, err
			}

			linter, err := graft.Dep[*esbuild.Linter](ctx)
			if err != nil {
				return nil, err
			}

			archiver, err := graft.Dep[*archive.Archiver](ctx)
			if err != nil {
				return nil, err
			}

			action, err := graft.Dep[*minify.Action](ctx)
			if err != nil {
				return nil, err
			}

			return NewDispatcher(map[domain.TaskKind]ports.Executor{
				domain.KindExec:    execShell,
				domain.KindClean:   cleaner,
				domain.KindCopy:    copier,
				domain.KindLint:    linter,
				domain.KindArchive: archiver,
				domain.KindMinify:  action,
			}), nil
		},
	})
}
