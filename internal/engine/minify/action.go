package minify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/go-units"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Action)(nil)

// Action executes minify tasks: it expands the task sources, generates a plan
// and runs it.
type Action struct {
	resolver ports.InputResolver
	runner   *Runner

	// Now supplies banner timestamps. Nil selects time.Now.
	Now func() time.Time
}

// NewAction creates an Action.
func NewAction(resolver ports.InputResolver, runner *Runner) *Action {
	return &Action{resolver: resolver, runner: runner}
}

// Plan expands task.Sources against the task working directory and returns the
// generated plan without running it. task.Dest must stay inside that directory.
func (a *Action) Plan(task *domain.Task) (*Plan, error) {
	if task.Kind != domain.KindMinify {
		err := zerr.With(domain.ErrNotMinifyTask, "task", task.Name.String())
		return nil, zerr.With(err, "kind", string(task.Kind))
	}

	if _, err := domain.WithinRoot(task.WorkingDir.String(), task.Dest); err != nil {
		return nil, zerr.With(err, "task", task.Name.String())
	}

	mappings, err := a.resolver.ExpandMapping(task.Sources, task.Dest, task.WorkingDir.String())
	if err != nil {
		return nil, zerr.With(err, "task", task.Name.String())
	}

	plan := NewPlan()
	if err := Generate(plan, mappings); err != nil {
		return nil, zerr.With(err, "task", task.Name.String())
	}
	return plan, nil
}

// Execute plans and runs task, writing a one-line summary to stdout.
func (a *Action) Execute(ctx context.Context, task *domain.Task, stdout, _ io.Writer) error {
	plan, err := a.Plan(task)
	if err != nil {
		return err
	}

	banner, err := ParseBanner(task.Banner)
	if err != nil {
		return zerr.With(err, "task", task.Name.String())
	}

	summary, err := a.runner.Run(ctx, plan, Options{
		Task:    task.Name.String(),
		Project: task.Project,
		Root:    task.WorkingDir.String(),
		Banner:  banner,
		NoCache: ports.NoCache(ctx),
		Now:     a.Now,
	})
	if err != nil {
		return err
	}

	_, _ = io.WriteString(stdout, summary.String())
	return nil
}

// String renders the summary as a single report line.
func (s Summary) String() string {
	if s.Minified == 0 && s.Skipped == 0 {
		return "No scripts to minify\n"
	}

	line := fmt.Sprintf("%d %s created", s.Minified, plural(s.Minified, "file", "files"))
	if s.Minified > 0 {
		line += fmt.Sprintf(" (%s → %s)",
			units.HumanSize(float64(s.OriginalBytes)), units.HumanSize(float64(s.MinifiedBytes)))
	}
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d up to date", s.Skipped)
	}
	return line + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
