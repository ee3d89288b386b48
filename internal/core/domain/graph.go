// Package domain contains the core domain models for mint: tasks, the task graph,
// and the values produced by the minify job generator.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	root           string
	project        string
	watchIgnore    []string
	tasks          map[InternedString]Task
	dependents     map[InternedString][]InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[InternedString]Task),
		dependents: make(map[InternedString][]InternedString),
	}
}

// SetRoot sets the project root directory.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// Root returns the project root directory.
func (g *Graph) Root() string {
	return g.root
}

// SetProject sets the project name used in banners and archive folders.
func (g *Graph) SetProject(name string) {
	g.project = name
}

// Project returns the project name.
func (g *Graph) Project() string {
	return g.project
}

// SetWatchIgnore sets the patterns whose changes never trigger a watch rebuild.
func (g *Graph) SetWatchIgnore(patterns []string) {
	g.watchIgnore = patterns
}

// WatchIgnore returns the patterns set by SetWatchIgnore.
func (g *Graph) WatchIgnore() []string {
	return g.watchIgnore
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	for _, dep := range t.Dependencies {
		g.dependents[dep] = append(g.dependents[dep], t.Name)
	}
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Dependents returns the names of tasks that depend directly on name.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// TaskNames returns all task names sorted lexicographically.
func (g *Graph) TaskNames() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, compareNames)
	return names
}

// Validate checks for missing dependencies and cycles.
func (g *Graph) Validate() error {
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range task.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	// Sorted roots keep the walk order stable between runs.
	for _, name := range g.TaskNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// Closure returns roots and everything they depend on in depth-first
// post-order. Dependencies are visited in declared order, so every task
// comes after its dependencies and siblings keep their dependsOn order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Closure(roots []InternedString) []InternedString {
	visited := make(map[InternedString]bool)
	var order []InternedString

	var visit func(name InternedString)
	visit = func(name InternedString) {
		if visited[name] {
			return
		}
		visited[name] = true

		for _, dep := range g.tasks[name].Dependencies {
			visit(dep)
		}
		order = append(order, name)
	}

	for _, root := range roots {
		visit(root)
	}

	return order
}

func compareNames(a, b InternedString) int {
	return strings.Compare(a.String(), b.String())
}
