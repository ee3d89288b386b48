package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no targets are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrReservedTaskName is returned when a task uses a reserved name (e.g., "all").
	ErrReservedTaskName = zerr.New("task name 'all' is reserved")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidTaskKind is returned when a task declares an unknown kind.
	ErrInvalidTaskKind = zerr.New("invalid task kind, expected one of alias, exec, clean, copy, minify, lint, archive")

	// ErrMissingTaskField is returned when a task kind requires a field the task does not set.
	ErrMissingTaskField = zerr.New("missing required task field")

	// ErrNotMinifyTask is returned when a minify plan is requested for a task of another kind.
	ErrNotMinifyTask = zerr.New("task is not a minify task")

	// ErrOutputPathOutsideRoot is returned when an output path is outside the project root.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside project root")

	// ErrInputNotFound is returned when a declared input file or directory is not found.
	ErrInputNotFound = zerr.New("input not found")

	// ErrInvalidPattern is returned when a glob pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrPatternOutsideRoot is returned when a pattern refers to a path outside the project root.
	ErrPatternOutsideRoot = zerr.New("pattern refers to a path outside project root")

	// ErrMalformedPath is returned when a minify source does not end in ".js".
	ErrMalformedPath = zerr.New("malformed source path, expected a .js file")

	// ErrMinifyJobFailed is returned when the minifier fails for a single job.
	ErrMinifyJobFailed = zerr.New("minify job failed")

	// ErrMinifyFailed is returned when the minifier reports errors for a source file.
	ErrMinifyFailed = zerr.New("minifier reported errors")

	// ErrLintFailed is returned when a source file fails the syntax check.
	ErrLintFailed = zerr.New("lint failed")

	// ErrInvalidBanner is returned when a banner template cannot be parsed or rendered.
	ErrInvalidBanner = zerr.New("invalid banner template")

	// ErrUnsupportedArchive is returned when an archive destination has an unknown extension.
	ErrUnsupportedArchive = zerr.New("unsupported archive format, expected .zip or .tar.zst")

	// ErrArchiveFailed is returned when writing an archive fails.
	ErrArchiveFailed = zerr.New("failed to write archive")

	// ErrCopyFailed is returned when copying a file fails.
	ErrCopyFailed = zerr.New("failed to copy file")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find mint.yaml")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInvalidOutputMode is returned when --output names an unknown renderer.
	ErrInvalidOutputMode = zerr.New("invalid output mode, expected one of auto, tui, linear")

	// ErrInterrupted is returned when the user quits the interactive renderer mid-run.
	ErrInterrupted = zerr.New("interrupted by user")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInputResolutionFailed is returned when input resolution fails.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrFailedToGetOutputPath is returned when an output path cannot be determined.
	ErrFailedToGetOutputPath = zerr.New("failed to get absolute path of output")

	// ErrFailedToResolveRelativePath is returned when a relative path cannot be resolved.
	ErrFailedToResolveRelativePath = zerr.New("failed to resolve relative path")

	// ErrFailedToCleanOutput is returned when cleaning an output file fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrWalkFailed is returned when a directory below the project root cannot be read.
	ErrWalkFailed = zerr.New("failed to walk directory")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrWriteHashFailed is returned when writing the hash to the digest fails.
	ErrWriteHashFailed = zerr.New("failed to write hash to digest")

	// ErrUnknownExecutor is returned when no executor is registered for a task kind.
	ErrUnknownExecutor = zerr.New("no executor registered for task kind")
)
