// Package tui provides the interactive terminal renderer: a task tree on the
// left, including the minify jobs of each task, and the selected span's output
// on the right.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mint/internal/ui/output"
)

// NewModel creates a new TUI model whose colors match the terminal behind w.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	return Model{
		Tasks:      make([]*TaskNode, 0),
		TaskMap:    make(map[string]*TaskNode),
		SpanMap:    make(map[string]*TaskNode),
		TreeRoots:  make([]*TaskNode, 0),
		FlatList:   make([]*TaskNode, 0),
		FollowMode: true,
	}
}
