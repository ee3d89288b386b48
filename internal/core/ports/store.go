package ports

import "go.trai.ch/mint/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info stored under key.
	// Returns nil, nil if not found.
	Get(root, key string) (*domain.BuildInfo, error)

	// Put stores the build info under info.Key.
	Put(root string, info domain.BuildInfo) error
}
