package tui

import tea "github.com/charmbracelet/bubbletea"

// Export functions for testing.
var (
	BuildTree   = buildTree
	FlattenTree = flattenTree
)

// MaxOffset exposes maxOffset for testing.
func (v *Vterm) MaxOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.maxOffset()
}

// Program exposes the underlying program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
