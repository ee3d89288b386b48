package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/core/ports/mocks"
	"go.trai.ch/mint/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type schedulerTestMocks struct {
	executor *mocks.MockExecutor
	store    *mocks.MockBuildInfoStore
	hasher   *mocks.MockHasher
	resolver *mocks.MockInputResolver
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
	span     *mocks.MockSpan
}

// newSchedulerMocks creates the mocks and a span that accepts any call.
func newSchedulerMocks(t *testing.T) schedulerTestMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := schedulerTestMocks{
		executor: mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockBuildInfoStore(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		resolver: mocks.NewMockInputResolver(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		span:     mocks.NewMockSpan(ctrl),
	}

	m.span.EXPECT().End().AnyTimes()
	m.span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	m.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	// Start has variadic signature: Start(ctx, name, ...opts).
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, m.span
		},
	).AnyTimes()

	return m
}

func (m schedulerTestMocks) scheduler() *scheduler.Scheduler {
	return scheduler.NewScheduler(m.executor, m.store, m.hasher, m.resolver, m.tracer, m.logger)
}

// setupSchedulerTest creates a scheduler whose tracer accepts any plan.
func setupSchedulerTest(t *testing.T) (*scheduler.Scheduler, schedulerTestMocks) {
	t.Helper()
	m := newSchedulerMocks(t)
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return m.scheduler(), m
}

// createGraphHelper constructs a graph from a simple map of dependencies.
// deps format: "target" -> ["dep1", "dep2"].
func createGraphHelper(t *testing.T, deps map[string][]string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	g.SetRoot(t.TempDir())

	addTask := func(name string, taskDeps []string) {
		if _, ok := g.GetTask(domain.NewInternedString(name)); ok {
			return
		}
		require.NoError(t, g.AddTask(&domain.Task{
			Name:         domain.NewInternedString(name),
			Kind:         domain.KindExec,
			Command:      []string{"echo", name},
			Dependencies: domain.NewInternedStrings(taskDeps),
		}))
	}

	for name, taskDeps := range deps {
		addTask(name, taskDeps)
	}
	for _, taskDeps := range deps {
		for _, d := range taskDeps {
			addTask(d, nil)
		}
	}

	require.NoError(t, g.Validate())
	return g
}

// taskMatcher implements gomock.Matcher for domain.Task.
type taskMatcher struct {
	name string
}

func (m taskMatcher) Matches(x any) bool {
	t, ok := x.(*domain.Task)
	if !ok {
		return false
	}
	return t.Name.String() == m.name
}

func (m taskMatcher) String() string {
	return "task name is " + m.name
}

func matchTask(name string) gomock.Matcher {
	return taskMatcher{name: name}
}

func TestScheduler_DiamondDependency(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Graph: A -> B, A -> C, B -> D, C -> D
		// Execution order: D -> (B, C parallel) -> A.
		g := createGraphHelper(t, map[string][]string{
			"A": {"B", "C"},
			"B": {"D"},
			"C": {"D"},
		})
		s, m := setupSchedulerTest(t)

		dCall := m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("D"), gomock.Any(), gomock.Any()).
			Return(nil).Times(1)
		bCall := m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("B"), gomock.Any(), gomock.Any()).
			Return(nil).Times(1).After(dCall)
		cCall := m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("C"), gomock.Any(), gomock.Any()).
			Return(nil).Times(1).After(dCall)
		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("A"), gomock.Any(), gomock.Any()).
			Return(nil).Times(1).After(bCall).After(cCall)

		require.NoError(t, s.Run(context.Background(), g, []string{"all"}, 4, false))
	})
}

// recordOrder makes every Execute call append its task name to the returned
// slice and fail for the names in failing.
func recordOrder(m schedulerTestMocks, failing ...string) *[]string {
	var order []string
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *domain.Task, _, _ any) error {
			name := task.Name.String()
			order = append(order, name)
			for _, f := range failing {
				if f == name {
					return errors.New(name + " failed")
				}
			}
			return nil
		},
	).AnyTimes()
	return &order
}

func TestScheduler_SequentialRunFollowsDeclaredOrder(t *testing.T) {
	tests := []struct {
		name    string
		deps    map[string][]string
		targets []string
		want    []string
	}{
		{
			name:    "independent dependencies",
			deps:    map[string][]string{"release": {"lint", "copy", "clean"}},
			targets: []string{"release"},
			want:    []string{"lint", "copy", "clean", "release"},
		},
		{
			name: "build pipeline",
			deps: map[string][]string{
				"build": {"clean", "copy", "sass", "minify"},
				"copy":  {"clean"},
				"sass":  {"copy"},
			},
			targets: []string{"build"},
			want:    []string{"clean", "copy", "sass", "minify", "build"},
		},
		{
			name: "several targets",
			deps: map[string][]string{
				"package": {"build"},
				"build":   {"copy"},
				"lint":    {},
			},
			targets: []string{"lint", "package"},
			want:    []string{"lint", "copy", "build", "package"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				g := createGraphHelper(t, tt.deps)
				s, m := setupSchedulerTest(t)
				order := recordOrder(m)

				require.NoError(t, s.Run(context.Background(), g, tt.targets, 1, false))
				assert.Equal(t, tt.want, *order)
			})
		})
	}
}

func TestScheduler_RunsOnlyDependencyClosure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{
			"package": {"build"},
			"build":   {"copy"},
			"lint":    {},
		})
		s, m := setupSchedulerTest(t)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("copy"), gomock.Any(), gomock.Any()).Return(nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("build"), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, s.Run(context.Background(), g, []string{"build"}, 2, false))
	})
}

func TestScheduler_EmitsPlanInTopologicalOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{
			"build": {"copy", "minify"},
			"copy":  {"clean"},
		})
		m := newSchedulerMocks(t)
		s := m.scheduler()

		m.tracer.EXPECT().EmitPlan(
			gomock.Any(),
			[]string{"clean", "copy", "minify", "build"},
			map[string][]string{
				"clean":  {},
				"copy":   {"clean"},
				"minify": {},
				"build":  {"copy", "minify"},
			},
			[]string{"build"},
		).Times(1)
		m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)

		require.NoError(t, s.Run(context.Background(), g, []string{"build"}, 1, false))
	})
}

func TestScheduler_FailurePropagation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Graph: A -> B. B fails. A should not run.
		g := createGraphHelper(t, map[string][]string{"A": {"B"}})
		s, m := setupSchedulerTest(t)

		failureErr := errors.New("boom")
		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("B"), gomock.Any(), gomock.Any()).
			Return(failureErr).Times(1)
		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("A"), gomock.Any(), gomock.Any()).
			Times(0)

		err := s.Run(context.Background(), g, []string{"all"}, 4, false)
		require.ErrorIs(t, err, failureErr)
		require.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())
	})
}

func TestScheduler_FailureStopsSequentialRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{
			"build": {"clean", "copy", "minify"},
			"copy":  {"clean"},
		})
		s, m := setupSchedulerTest(t)
		order := recordOrder(m, "clean")

		err := s.Run(context.Background(), g, []string{"build"}, 1, false)
		require.ErrorContains(t, err, "clean failed")
		assert.Equal(t, []string{"clean"}, *order)
	})
}

func TestScheduler_FailureCancelsTasksInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{
			"build": {"lint", "sass", "minify"},
		})
		s, m := setupSchedulerTest(t)

		failure := errors.New("syntax error")
		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("lint"), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *domain.Task, any, any) error {
				time.Sleep(time.Second)
				return failure
			})
		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("sass"), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ *domain.Task, _, _ any) error {
				<-ctx.Done()
				return ctx.Err()
			})
		// minify waits for a free slot and is never started.

		err := s.Run(context.Background(), g, []string{"build"}, 2, false)
		require.ErrorIs(t, err, failure)
		require.NotErrorIs(t, err, context.Canceled)
	})
}

func TestScheduler_Cancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{"A": {}})
		s, m := setupSchedulerTest(t)

		m.executor.EXPECT().
			Execute(gomock.Any(), matchTask("A"), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ *domain.Task, _, _ any) error {
				<-ctx.Done()
				return ctx.Err()
			}).Times(1)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Run(ctx, g, []string{"all"}, 4, false)
		}()

		synctest.Wait()
		cancel()

		err := <-errCh
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestScheduler_TargetErrors(t *testing.T) {
	g := createGraphHelper(t, map[string][]string{"build": {}})
	s, _ := setupSchedulerTest(t)

	err := s.Run(context.Background(), g, nil, 1, false)
	require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)

	err = s.Run(context.Background(), g, []string{"deploy"}, 1, false)
	require.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
}

func TestScheduler_ZeroTaskGraph(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := createGraphHelper(t, map[string][]string{})
		s, _ := setupSchedulerTest(t)

		require.NoError(t, s.Run(context.Background(), g, []string{"all"}, 1, false))
	})
}
