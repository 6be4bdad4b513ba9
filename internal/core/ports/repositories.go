package ports

import (
	"context"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// FallbackSource serves the curated fallback facility dataset used when the
// live geodata service has no results for a category.
type FallbackSource interface {
	// Facilities returns the raw fallback dataset grouped as stored. The
	// groups may be empty; callers treat errors as an empty dataset.
	Facilities(ctx context.Context) (domain.FallbackFacilities, error)
}
