package domain

import "time"

// BuildInfo records the hashes of a completed unit of work.
// Key is a task name, or "<task>/<identifier>" for a single minify job.
type BuildInfo struct {
	Key        string    `json:"key,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

// JobKey returns the build info key of a minify job within a task.
func JobKey(task, id string) string {
	return task + "/" + id
}
