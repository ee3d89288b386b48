// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mint/internal/adapters/archive"
	_ "go.trai.ch/mint/internal/adapters/cas"
	_ "go.trai.ch/mint/internal/adapters/config"
	_ "go.trai.ch/mint/internal/adapters/detector"
	_ "go.trai.ch/mint/internal/adapters/esbuild"
	_ "go.trai.ch/mint/internal/adapters/fs"
	_ "go.trai.ch/mint/internal/adapters/linear"
	_ "go.trai.ch/mint/internal/adapters/logger"
	_ "go.trai.ch/mint/internal/adapters/shell"
	_ "go.trai.ch/mint/internal/adapters/telemetry"
	_ "go.trai.ch/mint/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/mint/internal/app"
	_ "go.trai.ch/mint/internal/engine/dispatch"
	_ "go.trai.ch/mint/internal/engine/minify"
	_ "go.trai.ch/mint/internal/engine/scheduler"
)
