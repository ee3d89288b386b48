package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mint/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.logPane(),
	)
}

func (m *Model) taskList() string {
	var s strings.Builder

	title := titleStyle
	if m.failed() {
		title = failureTitleStyle
	}
	s.WriteString(title.Render("TASKS") + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.FlatList))
	start := min(m.ListOffset, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderTaskRow(i, m.FlatList[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTaskRow(index int, node *TaskNode) string {
	task := node.Canonical()
	rowStyle := taskStyle(task)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if task.Status != StatusDone && task.Status != StatusError {
			rowStyle = selectedStyle
		}
	}

	marker := "  "
	if len(node.Children) > 0 {
		marker = "▸ "
		if task.IsExpanded {
			marker = "▾ "
		}
	}

	content := fmt.Sprintf("%s %s", taskIcon(task), task.Name)
	if task.Duration > 0 {
		content += " " + task.Duration.Round(time.Millisecond).String()
	}

	return cursor + strings.Repeat("  ", node.Depth) + marker + rowStyle.Render(content)
}

func taskIcon(task *TaskNode) string {
	if task.Cached {
		return style.Cached
	}

	switch task.Status {
	case StatusRunning:
		return "●"
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default:
		return "○"
	}
}

func taskStyle(task *TaskNode) lipgloss.Style {
	if task.Cached {
		return taskCachedStyle
	}

	switch task.Status {
	case StatusRunning:
		return taskRunningStyle
	case StatusDone:
		return taskDoneStyle
	case StatusError:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}

func (m *Model) failed() bool {
	for _, task := range m.Tasks {
		if task.Status == StatusError {
			return true
		}
	}
	return false
}

func (m *Model) logPane() string {
	var header, content string

	if m.ActiveTaskName != "" {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		header = titleStyle.Render("LOGS: " + m.ActiveTaskName + mode)

		if node, ok := m.TaskMap[m.ActiveTaskName]; ok {
			content = node.Term.View()
		}
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
