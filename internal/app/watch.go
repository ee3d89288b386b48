package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/mint/internal/adapters/fs"      //nolint:depguard // Walk exclusions are shared with the watcher
	"go.trai.ch/mint/internal/adapters/watcher" //nolint:depguard // Debouncing lives with the watcher adapter
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	RunOptions
	// Debounce is the quiet period before a batch of changes triggers a rebuild.
	Debounce time.Duration
}

// Watch runs the targets, or the default task, once and again after every debounced batch of file
// changes under the project root. It returns when ctx is cancelled. Build
// failures are reported by the renderer and do not end the watch.
func (a *App) Watch(ctx context.Context, targetNames []string, opts WatchOptions) error {
	graph, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	targetNames, err = resolveTargets(graph, targetNames)
	if err != nil {
		return err
	}

	root := graph.Root()
	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(opts.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		default:
			// A rebuild is already queued and will see these changes.
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range a.watcher.Events() {
			if a.triggersRebuild(graph, event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	if err := a.rebuild(ctx, targetNames, opts.RunOptions); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s for changes", root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			a.logger.Info(fmt.Sprintf("%d %s changed, rebuilding %s",
				len(paths), pluralFiles(len(paths)), strings.Join(targetNames, ", ")))
			if err := a.rebuild(ctx, targetNames, opts.RunOptions); err != nil {
				return err
			}
		}
	}
}

// rebuild reloads the configuration and runs the targets. Errors are logged;
// only the user quitting the interactive renderer ends the watch.
func (a *App) rebuild(ctx context.Context, targetNames []string, opts RunOptions) error {
	err := a.Run(ctx, targetNames, opts)
	switch {
	case err == nil, ctx.Err() != nil:
	case errors.Is(err, domain.ErrInterrupted):
		return err
	case errors.Is(err, domain.ErrBuildExecutionFailed):
		// Already reported by the renderer.
	default:
		a.logger.Error(err)
	}
	return nil
}

// triggersRebuild reports whether a change at path should schedule a rebuild.
func (a *App) triggersRebuild(graph *domain.Graph, path string) bool {
	rel, err := filepath.Rel(graph.Root(), path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, segment := range strings.Split(rel, "/") {
		if fs.SkipDir(segment) {
			return false
		}
	}

	ignored, err := a.resolver.Match(graph.WatchIgnore(), rel)
	if err != nil {
		a.logger.Warn("invalid watch.ignore pattern: " + err.Error())
		return true
	}
	return !ignored
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
