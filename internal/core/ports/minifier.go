package ports

import (
	"context"

	"go.trai.ch/mint/internal/core/domain"
)

// Minifier compresses one script into its destination.
//
//go:generate mockgen -source=minifier.go -destination=mocks/mock_minifier.go -package=mocks
type Minifier interface {
	// Minify reads job.Source, writes the minified program prefixed with banner
	// to job.Destination and reports the sizes before and after.
	Minify(ctx context.Context, job domain.MinifyJob, banner string) (domain.MinifyResult, error)
}
