package domain

// TaskKind selects the action a task performs when it runs.
type TaskKind string

const (
	// KindAlias groups dependencies and performs no work of its own.
	KindAlias TaskKind = "alias"
	// KindExec runs an external command.
	KindExec TaskKind = "exec"
	// KindClean removes files matched by the task sources.
	KindClean TaskKind = "clean"
	// KindCopy copies files matched by the task sources into the destination.
	KindCopy TaskKind = "copy"
	// KindMinify generates and runs one minification job per matched script.
	KindMinify TaskKind = "minify"
	// KindLint checks the syntax of every matched script.
	KindLint TaskKind = "lint"
	// KindArchive packs files matched by the task sources into a release archive.
	KindArchive TaskKind = "archive"
)

// TaskKinds lists every kind accepted in configuration.
var TaskKinds = []TaskKind{KindAlias, KindExec, KindClean, KindCopy, KindMinify, KindLint, KindArchive}

// Valid reports whether k is a known kind.
func (k TaskKind) Valid() bool {
	for _, known := range TaskKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Task represents a unit of work in the build system.
// It uses InternedString for fields that are frequently repeated to save memory.
type Task struct {
	Name InternedString
	Kind TaskKind
	// Project is the name of the project the task belongs to. It appears in
	// minify banners and as the top-level folder of release archives.
	Project string
	Command []string
	// Sources are ordered glob patterns. A leading "!" excludes earlier matches.
	Sources      []string
	Dest         string
	Banner       string
	Inputs       []InternedString
	Outputs      []InternedString
	Dependencies []InternedString
	Environment  map[string]string
	WorkingDir   InternedString
}
