package ports

import (
	"context"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// FacilityGateway resolves facilities and land context from the external
// geodata service.
type FacilityGateway interface {
	// QueryFacilities returns the facilities of one category inside bounds.
	QueryFacilities(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error)
	// LanduseScore returns a suitability score in [0,1] and the raw land-use
	// label nearest the point. Lookup failures degrade to the neutral score
	// with an empty label.
	LanduseScore(ctx context.Context, p domain.GeoPoint) (float64, string)
	// BuildingDensity returns the number of buildings within radiusMeters of
	// the point. Lookup failures degrade to a conservative positive count.
	BuildingDensity(ctx context.Context, p domain.GeoPoint, radiusMeters float64) int
}

// EventPublisher publishes planner events to a message broker.
type EventPublisher interface {
	PublishProgress(ctx context.Context, ev *domain.ProgressEvent) error
	PublishAnalysisCompleted(ctx context.Context, result *domain.AnalysisResult) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// MapRenderer writes a human-viewable map artifact for an analysis and
// returns its filesystem path.
type MapRenderer interface {
	Render(ctx context.Context, path domain.Path, result *domain.AnalysisResult) (string, error)
}
