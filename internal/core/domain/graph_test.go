package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTask(name string, deps ...string) *domain.Task {
	return &domain.Task{
		Name:         domain.NewInternedString(name),
		Kind:         domain.KindAlias,
		Dependencies: domain.NewInternedStrings(deps),
	}
}

func TestGraph_AddTask_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("copy")))

	err := g.AddTask(newTask("copy"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTaskAlreadyExists.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "copy", zErr.Metadata()["task_name"])
}

func TestGraph_Cycle(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []*domain.Task
		wantErr error
	}{
		{
			name:    "self cycle",
			tasks:   []*domain.Task{newTask("A", "A")},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "two node cycle",
			tasks:   []*domain.Task{newTask("A", "B"), newTask("B", "A")},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "three node cycle",
			tasks:   []*domain.Task{newTask("A", "B"), newTask("B", "C"), newTask("C", "A")},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "missing dependency",
			tasks:   []*domain.Task{newTask("A", "ghost")},
			wantErr: domain.ErrMissingDependency,
		},
		{
			name:  "diamond",
			tasks: []*domain.Task{newTask("A", "B", "C"), newTask("B", "D"), newTask("C", "D"), newTask("D")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, task := range tt.tasks {
				require.NoError(t, g.AddTask(task))
			}

			err := g.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestGraph_CycleMetadata(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("A", "B")))
	require.NoError(t, g.AddTask(newTask("B", "A")))

	err := g.Validate()
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestGraph_Closure_FollowsDeclaredOrder(t *testing.T) {
	// build -> (clean, copy, sass, minify); copy -> clean; sass -> copy
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("minify")))
	require.NoError(t, g.AddTask(newTask("build", "clean", "copy", "sass", "minify")))
	require.NoError(t, g.AddTask(newTask("sass", "copy")))
	require.NoError(t, g.AddTask(newTask("copy", "clean")))
	require.NoError(t, g.AddTask(newTask("clean")))
	require.NoError(t, g.AddTask(newTask("lint")))
	require.NoError(t, g.Validate())

	build := domain.NewInternedString("build")
	order := domain.Strings(g.Closure([]domain.InternedString{build}))
	assert.Equal(t, []string{"clean", "copy", "sass", "minify", "build"}, order)

	order = domain.Strings(g.Closure([]domain.InternedString{domain.NewInternedString("sass"), build}))
	assert.Equal(t, []string{"clean", "copy", "sass", "minify", "build"}, order)

	order = domain.Strings(g.Closure(g.TaskNames()))
	assert.Equal(t, []string{"clean", "copy", "sass", "minify", "build", "lint"}, order)
}

func TestGraph_Dependents(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("clean")))
	require.NoError(t, g.AddTask(newTask("copy", "clean")))
	require.NoError(t, g.AddTask(newTask("package", "clean", "copy")))

	dependents := domain.Strings(g.Dependents(domain.NewInternedString("clean")))
	assert.ElementsMatch(t, []string{"copy", "package"}, dependents)
	assert.Empty(t, g.Dependents(domain.NewInternedString("package")))
	assert.Equal(t, 3, g.TaskCount())
}

func TestGraph_RootAndProject(t *testing.T) {
	g := domain.NewGraph()
	g.SetRoot("/srv/plugin")
	g.SetProject("wp-content-security-policy")

	assert.Equal(t, "/srv/plugin", g.Root())
	assert.Equal(t, "wp-content-security-policy", g.Project())
}
