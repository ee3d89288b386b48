// Package scheduler runs a target's dependency closure in topological order.
package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

// AllTasks is the reserved target that selects every task in the graph.
const AllTasks = "all"

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	executor ports.Executor
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	resolver ports.InputResolver
	tracer   ports.Tracer
	logger   ports.Logger
	now      func() time.Time
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		store:    store,
		hasher:   hasher,
		resolver: resolver,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes targetNames and their dependencies with at most parallelism
// tasks in flight. The target "all" selects every task in the graph.
// If noCache is true, cached results are ignored and every task runs.
//
// Ready tasks start in depth-first post-order over the targets and their
// dependsOn lists, so with a parallelism of 1 tasks run in declared order.
// The first failure stops the run: nothing new is started and tasks in
// flight are cancelled.
func (s *Scheduler) Run(
	ctx context.Context,
	graph *domain.Graph,
	targetNames []string,
	parallelism int,
	noCache bool,
) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	// Validate populates the execution order used by Walk.
	if err := graph.Validate(); err != nil {
		return err
	}

	state, err := s.newRunState(ctx, graph, targetNames, max(parallelism, 1), noCache)
	if err != nil {
		return err
	}
	defer state.cancel()

	planned, depMap := state.plan()
	s.tracer.EmitPlan(ctx, planned, depMap, targetNames)

	return state.runExecutionLoop()
}

type result struct {
	task        domain.InternedString
	err         error
	skipped     bool
	inputHash   string
	taskOutputs []string
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	tasks       map[domain.InternedString]domain.Task
	rank        map[domain.InternedString]int
	ready       []domain.InternedString
	active      int
	failed      bool
	resultsCh   chan result
	errs        error
	parent      context.Context
	ctx         context.Context
	cancel      context.CancelFunc
	parallelism int
	s           *Scheduler
	order       []domain.InternedString
	noCache     bool
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	targetNames []string,
	parallelism int,
	noCache bool,
) (*schedulerRunState, error) {
	order, err := resolveTasksToRun(graph, targetNames)
	if err != nil {
		return nil, err
	}

	rank := make(map[domain.InternedString]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	inDegree := make(map[domain.InternedString]int, len(order))
	tasks := make(map[domain.InternedString]domain.Task, len(order))

	var ready []domain.InternedString
	for _, name := range order {
		task, _ := graph.GetTask(name)
		tasks[name] = task

		// Only dependencies inside this run count towards the in-degree.
		degree := 0
		for _, dep := range task.Dependencies {
			if _, ok := rank[dep]; ok {
				degree++
			}
		}
		inDegree[name] = degree
		if degree == 0 {
			ready = append(ready, name)
		}
	}

	parent := ctx
	if noCache {
		ctx = ports.WithNoCache(ctx)
	}
	ctx, cancel := context.WithCancel(ctx)

	return &schedulerRunState{
		graph:       graph,
		inDegree:    inDegree,
		tasks:       tasks,
		rank:        rank,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		parent:      parent,
		ctx:         ctx,
		cancel:      cancel,
		parallelism: parallelism,
		s:           s,
		order:       order,
		noCache:     noCache,
	}, nil
}

// plan returns the run's tasks in execution order together with their
// dependency lists.
func (state *schedulerRunState) plan() ([]string, map[string][]string) {
	planned := make([]string, 0, len(state.order))
	depMap := make(map[string][]string, len(state.order))

	for _, taskName := range state.order {
		task := state.tasks[taskName]
		name := task.Name.String()
		planned = append(planned, name)

		deps := make([]string, len(task.Dependencies))
		for i, dep := range task.Dependencies {
			deps[i] = dep.String()
		}
		depMap[name] = deps
	}

	return planned, depMap
}

// runExecutionLoop waits for every started task before returning, so no
// executor outlives Run.
func (state *schedulerRunState) runExecutionLoop() error {
	for {
		state.schedule()

		// Nothing in flight: either everything ran or the run was cancelled
		// with tasks still waiting.
		if state.active == 0 {
			break
		}

		state.handleResult(<-state.resultsCh)
	}

	if err := state.parent.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}

	return state.errs
}

// resolveTasksToRun returns the closure of targetNames in execution order.
// The target "all" selects every task, taking roots in name order.
func resolveTasksToRun(graph *domain.Graph, targetNames []string) ([]domain.InternedString, error) {
	if slices.Contains(targetNames, AllTasks) {
		return graph.Closure(graph.TaskNames()), nil
	}

	roots := make([]domain.InternedString, 0, len(targetNames))
	for _, nameStr := range targetNames {
		name := domain.NewInternedString(nameStr)
		if _, ok := graph.GetTask(name); !ok {
			return nil, zerr.With(domain.ErrTaskNotFound, "task", nameStr)
		}
		roots = append(roots, name)
	}

	return graph.Closure(roots), nil
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		taskName := state.ready[0]
		state.ready = state.ready[1:]

		state.active++

		t := state.tasks[taskName]
		go state.executeTask(&t)
	}
}

func (state *schedulerRunState) executeTask(t *domain.Task) {
	// The span ends before the result is sent so the loop never finishes
	// ahead of the renderer.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, t.Name.String(), ports.WithKind(string(t.Kind)))
		defer span.End()

		skipped, hash, err := state.checkCache(t)
		if err != nil {
			span.RecordError(err)
			return result{task: t.Name, err: err}
		}

		if skipped {
			span.SetAttribute(ports.AttributeCached, true)
			return result{task: t.Name, skipped: true, inputHash: hash}
		}

		if err = state.validateAndCleanOutputs(t); err != nil {
			span.RecordError(err)
			return result{task: t.Name, err: err}
		}

		outputs := make([]string, len(t.Outputs))
		for i, out := range t.Outputs {
			outputs[i] = out.String()
		}

		err = state.s.executor.Execute(ctx, t, span, span)
		if err != nil {
			span.RecordError(err)
		}

		return result{
			task:        t.Name,
			err:         err,
			inputHash:   hash,
			taskOutputs: outputs,
		}
	}()

	state.resultsCh <- res
}

// checkCache reports whether t can be skipped. Tasks without declared inputs
// are never cached and return an empty hash.
func (state *schedulerRunState) checkCache(t *domain.Task) (skipped bool, hash string, err error) {
	if len(t.Inputs) == 0 {
		return false, "", nil
	}

	root := state.graph.Root()
	hash, err = state.s.computeInputHash(t, root)
	if err != nil {
		return false, "", err
	}

	if state.noCache {
		return false, hash, nil
	}

	info, err := state.s.store.Get(root, t.Name.String())
	if err != nil {
		return false, hash, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	if info == nil || info.InputHash != hash {
		return false, hash, nil
	}

	return state.s.outputsMatch(t, info, root), hash, nil
}

func (state *schedulerRunState) validateAndCleanOutputs(t *domain.Task) error {
	rootAbs, err := filepath.Abs(state.graph.Root())
	if err != nil {
		return zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	for _, out := range t.Outputs {
		outPath := out.String()
		outAbs := filepath.Join(rootAbs, outPath)

		rel, err := filepath.Rel(rootAbs, outAbs)
		if err != nil {
			return zerr.With(
				zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()),
				"file", outPath,
			)
		}

		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerr.With(domain.ErrOutputPathOutsideRoot, "file", outPath)
		}

		if err := os.RemoveAll(outAbs); err != nil {
			return zerr.With(
				zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()),
				"file", outPath,
			)
		}
	}

	return nil
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	if res.err != nil {
		// Tasks cancelled because of an earlier failure add nothing new.
		if state.failed && state.parent.Err() == nil && errors.Is(res.err, context.Canceled) {
			return
		}
		enhancedErr := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task.String())
		state.errs = errors.Join(state.errs, enhancedErr)
		state.fail()
		return
	}

	state.handleSuccess(res)
}

// fail stops the run after the first failed task.
func (state *schedulerRunState) fail() {
	if state.failed {
		return
	}
	state.failed = true
	state.ready = nil
	state.cancel()
}

func (state *schedulerRunState) handleSuccess(res result) {
	if !res.skipped && res.inputHash != "" {
		state.record(res)
	}

	if state.failed {
		return
	}

	var unlocked []domain.InternedString
	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.tasks[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			unlocked = append(unlocked, dep)
		}
	}
	state.ready = append(state.ready, unlocked...)
	slices.SortStableFunc(state.ready, func(a, b domain.InternedString) int {
		return state.rank[a] - state.rank[b]
	})
}

// record stores the build info of a successful task. A failing store only
// costs the next run a cache miss, so it is logged and not returned.
func (state *schedulerRunState) record(res result) {
	root := state.graph.Root()

	outputHash := ""
	if len(res.taskOutputs) > 0 {
		var err error
		outputHash, err = state.s.hasher.ComputeOutputHash(res.taskOutputs, root)
		if err != nil {
			state.s.logger.Warn("not caching " + res.task.String() + ": " + err.Error())
			return
		}
	}

	err := state.s.store.Put(root, domain.BuildInfo{
		Key:        res.task.String(),
		InputHash:  res.inputHash,
		OutputHash: outputHash,
		Timestamp:  state.s.now(),
	})
	if err != nil {
		state.s.logger.Warn("not caching " + res.task.String() + ": " + err.Error())
	}
}

func (s *Scheduler) computeInputHash(task *domain.Task, root string) (string, error) {
	inputs := make([]string, len(task.Inputs))
	for i, input := range task.Inputs {
		inputs[i] = input.String()
	}
	resolvedInputs, err := s.resolver.ResolveInputs(inputs, root)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrInputResolutionFailed.Error())
	}

	hash, err := s.hasher.ComputeInputHash(task, task.Environment, resolvedInputs)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error())
	}

	return hash, nil
}

// outputsMatch reports whether the outputs on disk still hash to the cached value.
func (s *Scheduler) outputsMatch(task *domain.Task, info *domain.BuildInfo, root string) bool {
	if len(task.Outputs) == 0 {
		return true
	}

	outputs := make([]string, len(task.Outputs))
	for i, out := range task.Outputs {
		outputs[i] = out.String()
	}

	outputHash, err := s.hasher.ComputeOutputHash(outputs, root)
	if err != nil {
		return false
	}

	return info.OutputHash == outputHash
}
