package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
)

// Bounding-box padding in degrees applied around the route before facility
// queries.
const bboxPadDeg = 0.5

// Fallback facilities beyond this distance from the route are ignored.
const fallbackMaxDistanceM = 200_000.0

// Proposed sites are synthesized one per full segment of this length along
// the route, at the segment's halfway point.
const (
	proposedSegmentM = 200_000.0
	proposedOffsetM  = 100_000.0
)

// DefaultTopK bounds the number of existing facilities returned.
const DefaultTopK = 5

// PlannerService orchestrates a route analysis end to end: facility lookup,
// fallback gating, candidate scoring and ranking, and artifact generation.
type PlannerService struct {
	gateway   ports.FacilityGateway
	fallback  ports.FallbackSource
	scorer    *Scorer
	publisher ports.EventPublisher
	renderer  ports.MapRenderer
}

// NewPlannerService creates a new PlannerService. The fallback source,
// publisher and renderer are optional; nil disables the corresponding
// feature.
func NewPlannerService(
	gateway ports.FacilityGateway,
	fallback ports.FallbackSource,
	scorer *Scorer,
	publisher ports.EventPublisher,
	renderer ports.MapRenderer,
) *PlannerService {
	return &PlannerService{
		gateway:   gateway,
		fallback:  fallback,
		scorer:    scorer,
		publisher: publisher,
		renderer:  renderer,
	}
}

// Analyze locates facilities around the path, scores existing asphalt plants
// and synthesized candidate sites, and ranks them. Facility queries that
// exhaust every mirror abort the analysis; land context and fallback lookups
// degrade without failing it.
func (s *PlannerService) Analyze(ctx context.Context, path domain.Path, weights domain.WeightSet, topK int) (*domain.AnalysisResult, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("path must contain at least two points")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if weights == nil {
		weights = domain.DefaultWeights()
	}

	ctx, span := otel.Tracer("planner").Start(ctx, "planner.analyze", trace.WithAttributes(
		attribute.Int("route.points", len(path)),
		attribute.Float64("route.length_m", path.TotalLength()),
		attribute.Int("planner.top_k", topK),
	))
	defer span.End()

	bounds := path.Bounds().Pad(bboxPadDeg)

	byCategory := make(map[domain.Category][]domain.Facility, 6)
	for _, cat := range domain.LiveCategories() {
		items, err := s.gateway.QueryFacilities(ctx, bounds, cat)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("query %s facilities: %w", cat, err)
		}
		byCategory[cat] = items
		s.progress(ctx, domain.StageFacilities, cat, len(items))
	}

	asphalt := byCategory[domain.CategoryAsphalt]
	sets := domain.FacilitySets{
		Quarries:       byCategory[domain.CategoryQuarry],
		Rubbers:        byCategory[domain.CategoryRubber],
		Highways:       byCategory[domain.CategoryHighway],
		ReadyMix:       byCategory[domain.CategoryReadyMix],
		BitumenSources: byCategory[domain.CategoryBitumen],
	}

	fb := s.loadFallback(ctx)
	fbAsphalt := annotateAndFilter(fb.AsphaltPlants, domain.CategoryFallbackAsphalt, path)
	fbWaste := annotateAndFilter(fb.WasteSites, domain.CategoryFallbackWaste, path)
	fbRubberRec := annotateAndFilter(fb.RubberRecycling, domain.CategoryFallbackRubberRecycling, path)
	fbRubberProd := annotateAndFilter(fb.RubberProduction, domain.CategoryFallbackRubberProduction, path)

	// Fallback layers fill in only where live results are absent; waste and
	// rubber production have no live counterpart and appear only when both
	// asphalt and rubber came back empty.
	hasAsphalt := len(asphalt) > 0
	hasRubber := len(sets.Rubbers) > 0
	fallback := domain.FallbackSets{
		Asphalt:          gate(!hasAsphalt, fbAsphalt),
		RubberRecycling:  gate(!hasRubber, fbRubberRec),
		Waste:            gate(!hasAsphalt && !hasRubber, fbWaste),
		RubberProduction: gate(!hasAsphalt && !hasRubber, fbRubberProd),
	}
	s.progress(ctx, domain.StageFallback, "", len(fallback.Asphalt)+len(fallback.Waste)+
		len(fallback.RubberRecycling)+len(fallback.RubberProduction))

	existing := make([]domain.Candidate, 0, len(asphalt))
	for _, f := range asphalt {
		existing = append(existing, domain.Candidate{
			Name:     f.Name,
			Location: f.Location,
			Category: f.Category,
			Score:    s.scorer.Score(ctx, f.Location, path, sets, weights),
		})
	}
	sortByTotalScore(existing)
	if len(existing) > topK {
		existing = existing[:topK]
	}

	proposed := s.proposeSites(ctx, path, sets, weights)
	s.progress(ctx, domain.StageScoring, "", len(existing)+len(proposed))

	result := &domain.AnalysisResult{
		Existing:     existing,
		Proposed:     proposed,
		FacilitySets: sets,
		FallbackSets: fallback,
	}

	if s.renderer != nil {
		// The map is a convenience artifact; render failures leave MapPath
		// empty without failing the analysis.
		if mapPath, err := s.renderer.Render(ctx, path, result); err == nil {
			result.MapPath = mapPath
		}
	}

	if s.publisher != nil {
		_ = s.publisher.PublishAnalysisCompleted(ctx, result)
	}

	return result, nil
}

// AnalyzeBidirectional slices the route forward and reverse from the same
// anchor and analyzes both segments independently.
func (s *PlannerService) AnalyzeBidirectional(ctx context.Context, path domain.Path, segmentMeters float64, anchor domain.SliceAnchor, weights domain.WeightSet, topK int) (*domain.BidirectionalResult, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("path must contain at least two points")
	}

	forward, err := s.Analyze(ctx, path.Slice(segmentMeters, anchor, domain.DirectionForward), weights, topK)
	if err != nil {
		return nil, fmt.Errorf("analyze forward segment: %w", err)
	}
	reverse, err := s.Analyze(ctx, path.Slice(segmentMeters, anchor, domain.DirectionReverse), weights, topK)
	if err != nil {
		return nil, fmt.Errorf("analyze reverse segment: %w", err)
	}
	return &domain.BidirectionalResult{Forward: forward, Reverse: reverse}, nil
}

// proposeSites synthesizes one candidate per full segment of the route,
// placed at the segment midpoint and deduplicated by rounded coordinates.
// All proposed sites are returned, ranked by score.
func (s *PlannerService) proposeSites(ctx context.Context, path domain.Path, sets domain.FacilitySets, weights domain.WeightSet) []domain.Candidate {
	proposed := make([]domain.Candidate, 0)
	total := path.TotalLength()
	if total < proposedSegmentM {
		return proposed
	}

	seen := make(map[string]struct{})
	for k := 0; k < int(total/proposedSegmentM); k++ {
		pt := path.PointAt(float64(k)*proposedSegmentM + proposedOffsetM)
		key := fmt.Sprintf("%.5f,%.5f", pt.Lat, pt.Lon)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		proposed = append(proposed, domain.Candidate{
			Name:     "Proposed Site",
			Location: pt,
			Category: domain.CategoryProposed,
			Score:    s.scorer.Score(ctx, pt, path, sets, weights),
		})
	}
	sortByTotalScore(proposed)
	return proposed
}

func (s *PlannerService) loadFallback(ctx context.Context) domain.FallbackFacilities {
	if s.fallback == nil {
		return domain.FallbackFacilities{}
	}
	fb, err := s.fallback.Facilities(ctx)
	if err != nil {
		// A broken fallback dataset never fails an analysis.
		return domain.FallbackFacilities{}
	}
	return fb
}

func (s *PlannerService) progress(ctx context.Context, stage string, category domain.Category, count int) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.PublishProgress(ctx, &domain.ProgressEvent{
		Time:     time.Now(),
		Stage:    stage,
		Category: category,
		Count:    count,
	})
}

func annotateAndFilter(items []domain.Facility, category domain.Category, path domain.Path) []domain.Facility {
	out := make([]domain.Facility, 0, len(items))
	for _, it := range items {
		d := path.MinDistanceTo(it.Location)
		if d > fallbackMaxDistanceM {
			continue
		}
		f := it
		f.Category = category
		if f.Name == "" {
			f.Name = string(category)
		}
		dist := d
		f.DistanceToPath = &dist
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceToPath < *out[j].DistanceToPath
	})
	return out
}

func gate(use bool, items []domain.Facility) []domain.Facility {
	if use {
		return items
	}
	return []domain.Facility{}
}

func sortByTotalScore(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score.TotalScore > cands[j].Score.TotalScore
	})
}
