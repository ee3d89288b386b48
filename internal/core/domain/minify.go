package domain

// FileMapping pairs a discovered source with the destination root it was
// expanded under. An empty DestRoot places outputs next to their sources.
type FileMapping struct {
	Source   string
	DestRoot string
}

// TargetRecord is the per-file parameter set registered for one minify job.
type TargetRecord struct {
	Path     string
	Filename string
}

// MinifyJob is one scheduled minification of Source into Destination.
type MinifyJob struct {
	ID          string
	Source      string
	Destination string
}

// MinifyResult reports the sizes observed while minifying one job.
type MinifyResult struct {
	OriginalSize int64
	MinifiedSize int64
}
