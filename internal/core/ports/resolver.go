package ports

import "go.trai.ch/mint/internal/core/domain"

// InputResolver defines the interface for resolving glob patterns against the file system.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs resolves cache input patterns to a sorted, deduplicated list of
	// absolute paths. A pattern that matches nothing is an error.
	ResolveInputs(inputs []string, root string) ([]string, error)

	// Expand resolves ordered patterns to root-relative, slash-separated file paths.
	// Patterns apply in order; a leading "!" removes earlier matches. Each pattern's
	// matches are sorted and the first occurrence of a path fixes its position.
	Expand(patterns []string, root string) ([]string, error)

	// ExpandMapping is Expand with every result paired to destRoot.
	ExpandMapping(patterns []string, destRoot, root string) ([]domain.FileMapping, error)

	// Match reports whether the root-relative path rel is selected by patterns.
	Match(patterns []string, rel string) (bool, error)
}
