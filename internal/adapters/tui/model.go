package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	taskListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// TaskStatus represents the current state of a task or job.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to start.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusError indicates the task failed.
	StatusError TaskStatus = "Error"
)

// TaskNode is a task or a minify job. Canonical nodes hold the live state;
// the tree holds clones that point back at them through CanonicalNode.
type TaskNode struct {
	Name     string
	Status   TaskStatus
	Term     *Vterm
	Cached   bool
	Started  time.Time
	Duration time.Duration

	// Jobs are the minify job spans started under this task.
	Jobs       []*TaskNode
	IsExpanded bool

	Depth         int
	Parent        *TaskNode
	Children      []*TaskNode
	CanonicalNode *TaskNode
}

// Canonical returns the node holding the live state for n.
func (n *TaskNode) Canonical() *TaskNode {
	if n.CanonicalNode != nil {
		return n.CanonicalNode
	}
	return n
}

// Model represents the main TUI state.
type Model struct {
	// Tasks lists the canonical nodes: planned tasks, then jobs in start order.
	Tasks        []*TaskNode
	TaskMap      map[string]*TaskNode
	SpanMap      map[string]*TaskNode
	Dependencies map[string][]string
	Targets      []string

	TreeRoots []*TaskNode
	FlatList  []*TaskNode

	ActiveTaskName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool

	// Interrupted is set when the user quit before the run finished.
	Interrupted bool
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case MsgInitTasks:
		m.initTasks(msg)

	case MsgTaskStart:
		node, ok := m.TaskMap[msg.Name]
		if !ok {
			parent, known := m.SpanMap[msg.ParentID]
			if !known {
				return m, nil
			}
			node = m.addJob(parent, msg.Name)
		}
		node.Status = StatusRunning
		node.Started = msg.StartTime
		m.SpanMap[msg.SpanID] = node

		if m.FollowMode {
			m.follow(node)
		}

	case MsgTaskLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgTaskComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Cached = msg.Cached
			if !node.Started.IsZero() {
				node.Duration = msg.EndTime.Sub(node.Started)
			}
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Interrupted = true
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.FlatList)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "l", "right":
		m.setExpanded(true)
	case "h", "left":
		m.setExpanded(false)
	case "enter", " ":
		if node := m.selected(); node != nil {
			m.setExpanded(!node.Canonical().IsExpanded)
		}
	case "esc":
		m.FollowMode = true
		for _, node := range m.Tasks {
			if node.Status == StatusRunning {
				m.follow(node)
				break
			}
		}
	default:
		if node, ok := m.TaskMap[m.ActiveTaskName]; ok {
			node.Term.Update(msg)
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * taskListWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorderWidth
	m.LogHeight = height - lipgloss.Height(titleStyle.Render("LOGS"))

	header := titleStyle.Render("TASKS") + "\n\n"
	m.ListHeight = height - lipgloss.Height(header)
	m.ensureVisible()

	for _, node := range m.Tasks {
		node.Term.SetWidth(m.LogWidth)
		node.Term.SetHeight(m.LogHeight)
	}
}

func (m *Model) initTasks(msg MsgInitTasks) {
	m.Tasks = make([]*TaskNode, 0, len(msg.Tasks))
	m.TaskMap = make(map[string]*TaskNode, len(msg.Tasks))
	m.SpanMap = make(map[string]*TaskNode)
	m.Dependencies = msg.Dependencies
	m.Targets = msg.Targets
	if len(m.Targets) == 0 {
		m.Targets = msg.Tasks
	}

	for _, name := range msg.Tasks {
		m.addNode(name)
	}
	for _, target := range m.Targets {
		if node, ok := m.TaskMap[target]; ok {
			node.IsExpanded = true
		}
	}
	m.rebuildTree()
}

func (m *Model) addNode(name string) *TaskNode {
	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.SetWidth(m.LogWidth)
		term.SetHeight(m.LogHeight)
	}

	node := &TaskNode{Name: name, Status: StatusPending, Term: term}
	m.Tasks = append(m.Tasks, node)
	m.TaskMap[name] = node
	return node
}

// addJob registers a minify job span under its task and shows it in the tree.
func (m *Model) addJob(parent *TaskNode, name string) *TaskNode {
	node := m.addNode(name)
	parent.Jobs = append(parent.Jobs, node)
	m.rebuildTree()
	return node
}

// rebuildTree lays the tree out again and keeps the selection on the same node.
func (m *Model) rebuildTree() {
	var keep *TaskNode
	if node := m.selected(); node != nil {
		keep = node.Canonical()
	}

	m.TreeRoots = buildTree(m.Targets, m.Dependencies, m.TaskMap)
	m.FlatList = flattenTree(m.TreeRoots)

	if keep != nil {
		if idx := m.indexOf(keep); idx >= 0 {
			m.SelectedIdx = idx
		}
	}
	m.SelectedIdx = min(max(m.SelectedIdx, 0), max(len(m.FlatList)-1, 0))
	m.ensureVisible()
}

// follow selects node, expanding its task first when node is a job.
func (m *Model) follow(node *TaskNode) {
	m.ActiveTaskName = node.Name

	for _, task := range m.Tasks {
		for _, job := range task.Jobs {
			if job == node && !task.IsExpanded {
				task.IsExpanded = true
				m.rebuildTree()
			}
		}
	}

	if idx := m.indexOf(node); idx >= 0 {
		m.SelectedIdx = idx
		m.ensureVisible()
	}
	node.Term.ScrollToBottom()
}

func (m *Model) setExpanded(expanded bool) {
	node := m.selected()
	if node == nil || len(node.Children) == 0 {
		return
	}
	node.Canonical().IsExpanded = expanded
	m.rebuildTree()
}

func (m *Model) indexOf(canonical *TaskNode) int {
	for i, node := range m.FlatList {
		if node.Canonical() == canonical {
			return i
		}
	}
	return -1
}

func (m *Model) selected() *TaskNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.FlatList) {
		return m.FlatList[m.SelectedIdx]
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) updateActiveView() {
	node := m.selected()
	if node == nil {
		return
	}
	m.ActiveTaskName = node.Name
	if m.FollowMode {
		node.Term.ScrollToBottom()
	}
}
