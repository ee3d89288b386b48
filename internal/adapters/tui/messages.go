package tui

import "time"

// MsgInitTasks carries the planned task graph into the model.
type MsgInitTasks struct {
	Tasks        []string
	Dependencies map[string][]string
	Targets      []string
}

// MsgTaskStart reports a task or minify job span starting.
type MsgTaskStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgTaskLog carries output written to a span.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete reports a span ending.
type MsgTaskComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
	Cached  bool
}
