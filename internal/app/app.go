// Package app implements the application layer for mint.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/engine/minify"
	"go.trai.ch/mint/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Planner builds the minify plan of a task without running it.
type Planner interface {
	Plan(task *domain.Task) (*minify.Plan, error)
}

// RendererSelector activates the renderer for an --output mode. The returned
// func restores the previous renderer once the run is over.
type RendererSelector interface {
	Select(ctx context.Context, mode string) (func(), error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	renderer     ports.Renderer
	logger       ports.Logger
	watcher      ports.Watcher
	resolver     ports.InputResolver
	planner      Planner
	selector     RendererSelector

	stdout  io.Writer
	workDir string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	renderer ports.Renderer,
	log ports.Logger,
	watcher ports.Watcher,
	resolver ports.InputResolver,
	planner Planner,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		renderer:     renderer,
		logger:       log,
		watcher:      watcher,
		resolver:     resolver,
		planner:      planner,
		stdout:       os.Stdout,
		workDir:      ".",
	}
}

// WithOutput sets the writer for listings. It defaults to os.Stdout.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithRendererSelector lets Run pick the renderer per run from RunOptions.OutputMode.
func (a *App) WithRendererSelector(selector RendererSelector) *App {
	a.selector = selector
	return a
}

// WithWorkDir sets the directory from which mint.yaml is discovered.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	NoCache bool
	// Jobs is the maximum number of tasks in flight. Zero or less uses one per CPU.
	Jobs int
	// OutputMode is one of auto, tui or linear. Empty means auto.
	OutputMode string
}

// Run executes the build process for the specified targets. Without targets
// it runs the project's "default" task.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	graph, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	targetNames, err = resolveTargets(graph, targetNames)
	if err != nil {
		return err
	}

	if a.selector != nil {
		restore, err := a.selector.Select(ctx, opts.OutputMode)
		if err != nil {
			return err
		}
		defer restore()
	}

	return a.execute(ctx, graph, targetNames, opts)
}

// resolveTargets falls back to the default task when no target is given.
func resolveTargets(graph *domain.Graph, targetNames []string) ([]string, error) {
	if len(targetNames) > 0 {
		return targetNames, nil
	}
	if _, ok := graph.GetTask(domain.NewInternedString(domain.DefaultTaskName)); ok {
		return []string{domain.DefaultTaskName}, nil
	}
	return nil, domain.ErrNoTargetsSpecified
}

// execute runs the renderer and the scheduler concurrently.
func (a *App) execute(ctx context.Context, graph *domain.Graph, targetNames []string, opts RunOptions) error {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.renderer.Start(ctx); err != nil {
			return err
		}
		return a.renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = a.renderer.Stop()
		}()

		if err := a.scheduler.Run(ctx, graph, targetNames, jobs, opts.NoCache); err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// Clean removes the .mint state directory of the current project.
func (a *App) Clean(_ context.Context) error {
	root, err := a.configLoader.DiscoverRoot(a.workDir)
	if err != nil {
		return err
	}

	state := filepath.Join(root, domain.DefaultStatePath())
	a.logger.Info(fmt.Sprintf("removing %s...", state))
	if err := os.RemoveAll(state); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove state directory"), "path", state)
	}
	a.logger.Info("removed build info store")
	return nil
}

// List prints every task with its kind and dependencies.
func (a *App) List(_ context.Context) error {
	graph, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TASK\tKIND\tDEPENDS ON")
	for _, name := range graph.TaskNames() {
		task, _ := graph.GetTask(name)
		deps := "-"
		if len(task.Dependencies) > 0 {
			deps = strings.Join(domain.Strings(task.Dependencies), ", ")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", name, task.Kind, deps)
	}
	return tw.Flush()
}

// Plan prints the minify jobs the named task would run.
func (a *App) Plan(_ context.Context, taskName string) error {
	graph, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	task, ok := graph.GetTask(domain.NewInternedString(taskName))
	if !ok {
		return zerr.With(domain.ErrTaskNotFound, "task", taskName)
	}

	plan, err := a.planner.Plan(&task)
	if err != nil {
		return zerr.With(err, "task", taskName)
	}

	return minify.WritePlan(a.stdout, plan)
}
