package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mint/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mint/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/mint/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/mint/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mint/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/engine/minify"
	"go.trai.ch/mint/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			detector.NodeID,
			logger.NodeID,
			watcher.NodeID,
			fs.ResolverNodeID,
			minify.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	renderers, err := graft.Dep[*detector.Switch](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	action, err := graft.Dep[*minify.Action](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sched, renderers, log, watch, resolver, action).WithRendererSelector(renderers), nil
}
