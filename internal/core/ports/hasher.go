package ports

import "go.trai.ch/mint/internal/core/domain"

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the content hash of a single file.
	ComputeFileHash(path string) (uint64, error)

	// ComputeInputHash computes the input hash for a task from its definition,
	// environment and resolved input files.
	ComputeInputHash(task *domain.Task, env map[string]string, inputs []string) (string, error)

	// ComputeOutputHash computes a hash over the given outputs relative to root.
	// It fails if any output is missing.
	ComputeOutputHash(outputs []string, root string) (string, error)
}
