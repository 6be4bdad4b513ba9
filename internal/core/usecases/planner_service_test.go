package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/core/usecases"
)

// ---- Mock fallback source ----

type mockFallback struct {
	facilitiesFn func(ctx context.Context) (domain.FallbackFacilities, error)
}

func (m *mockFallback) Facilities(ctx context.Context) (domain.FallbackFacilities, error) {
	if m.facilitiesFn != nil {
		return m.facilitiesFn(ctx)
	}
	return domain.FallbackFacilities{}, nil
}

func industrialGateway(queryFn func(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error)) *mockGateway {
	return &mockGateway{
		queryFn:   queryFn,
		landuseFn: func(ctx context.Context, p domain.GeoPoint) (float64, string) { return 1.0, "industrial" },
	}
}

func newPlanner(gw *mockGateway, fb *mockFallback) *usecases.PlannerService {
	return usecases.NewPlannerService(gw, fb, usecases.NewScorer(gw), nil, nil)
}

// longRoute runs ~500 km south to north, enough for two proposed sites.
func longRoute() domain.Path {
	path := make(domain.Path, 0, 10)
	for i := 0; i < 10; i++ {
		path = append(path, domain.GeoPoint{Lat: 30.0 + 0.5*float64(i), Lon: 31.0})
	}
	return path
}

// ---- Analyze ----

func TestAnalyze_RejectsShortPath(t *testing.T) {
	planner := newPlanner(industrialGateway(nil), &mockFallback{})

	_, err := planner.Analyze(context.Background(), domain.Path{{Lat: 30, Lon: 31}}, nil, 5)
	if err == nil {
		t.Fatal("expected error for single-point path")
	}
}

func TestAnalyze_GatewayErrorAborts(t *testing.T) {
	gw := industrialGateway(func(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error) {
		return nil, fmt.Errorf("all mirrors exhausted")
	})
	planner := newPlanner(gw, &mockFallback{})

	_, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err == nil {
		t.Fatal("expected error when facility queries fail")
	}
}

func TestAnalyze_ExistingRankedAndTruncated(t *testing.T) {
	// Three plants: one at the route midpoint, one near the start (edge
	// penalty), one far off-route. Ask for top 2.
	plants := []domain.Facility{
		{ID: 1, Name: "Edge Plant", Category: domain.CategoryAsphalt, Location: domain.GeoPoint{Lat: 30.02, Lon: 31.0}},
		{ID: 2, Name: "Mid Plant", Category: domain.CategoryAsphalt, Location: domain.GeoPoint{Lat: 30.5, Lon: 31.0}},
		{ID: 3, Name: "Far Plant", Category: domain.CategoryAsphalt, Location: domain.GeoPoint{Lat: 30.5, Lon: 32.5}},
	}
	gw := industrialGateway(func(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error) {
		if category == domain.CategoryAsphalt {
			return plants, nil
		}
		return nil, nil
	})
	planner := newPlanner(gw, &mockFallback{})

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Existing) != 2 {
		t.Fatalf("expected top 2 candidates, got %d", len(result.Existing))
	}
	if result.Existing[0].Name != "Mid Plant" {
		t.Errorf("expected Mid Plant ranked first, got %s", result.Existing[0].Name)
	}
	for i := 1; i < len(result.Existing); i++ {
		if result.Existing[i].Score.TotalScore > result.Existing[i-1].Score.TotalScore {
			t.Errorf("existing candidates not sorted by score at %d", i)
		}
	}
}

func TestAnalyze_ShortRouteProposesNothing(t *testing.T) {
	planner := newPlanner(industrialGateway(nil), &mockFallback{})

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Proposed) != 0 {
		t.Errorf("a 111 km route must propose no sites, got %d", len(result.Proposed))
	}
}

func TestAnalyze_LongRouteProposesPerSegment(t *testing.T) {
	planner := newPlanner(industrialGateway(nil), &mockFallback{})

	path := longRoute() // ~500 km → two full 200 km segments
	result, err := planner.Analyze(context.Background(), path, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Proposed) != 2 {
		t.Fatalf("expected 2 proposed sites, got %d", len(result.Proposed))
	}
	for _, p := range result.Proposed {
		if p.Category != domain.CategoryProposed {
			t.Errorf("expected proposed category, got %s", p.Category)
		}
		if p.Name != "Proposed Site" {
			t.Errorf("unexpected proposed name %q", p.Name)
		}
	}
	for i := 1; i < len(result.Proposed); i++ {
		if result.Proposed[i].Score.TotalScore > result.Proposed[i-1].Score.TotalScore {
			t.Errorf("proposed sites not sorted by score at %d", i)
		}
	}
}

// ---- Fallback gating ----

func fallbackData() domain.FallbackFacilities {
	return domain.FallbackFacilities{
		AsphaltPlants: []domain.Facility{
			{Name: "FB Asphalt Near", Location: domain.GeoPoint{Lat: 30.5, Lon: 31.2}},
			{Name: "FB Asphalt Far", Location: domain.GeoPoint{Lat: 30.5, Lon: 40.0}},
		},
		WasteSites: []domain.Facility{
			{Name: "FB Waste", Location: domain.GeoPoint{Lat: 30.6, Lon: 31.1}},
		},
		RubberRecycling: []domain.Facility{
			{Name: "FB Rubber Rec", Location: domain.GeoPoint{Lat: 30.4, Lon: 31.1}},
		},
		RubberProduction: []domain.Facility{
			{Name: "FB Rubber Prod", Location: domain.GeoPoint{Lat: 30.3, Lon: 31.1}},
		},
	}
}

func TestAnalyze_FallbackUsedWhenLiveEmpty(t *testing.T) {
	fb := &mockFallback{
		facilitiesFn: func(ctx context.Context) (domain.FallbackFacilities, error) { return fallbackData(), nil },
	}
	planner := newPlanner(industrialGateway(nil), fb)

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err != nil {
		t.Fatal(err)
	}

	// No live asphalt or rubber: every fallback layer is active.
	if len(result.FallbackSets.Asphalt) != 1 {
		t.Errorf("expected 1 near fallback asphalt plant, got %d", len(result.FallbackSets.Asphalt))
	}
	if len(result.FallbackSets.RubberRecycling) != 1 {
		t.Errorf("expected fallback rubber recycling, got %d", len(result.FallbackSets.RubberRecycling))
	}
	if len(result.FallbackSets.Waste) != 1 || len(result.FallbackSets.RubberProduction) != 1 {
		t.Errorf("expected waste and rubber production layers: %d, %d",
			len(result.FallbackSets.Waste), len(result.FallbackSets.RubberProduction))
	}

	// The far entry (hundreds of km off-route) is filtered out, the near one
	// is annotated with its distance.
	near := result.FallbackSets.Asphalt[0]
	if near.Name != "FB Asphalt Near" {
		t.Errorf("expected the near plant, got %s", near.Name)
	}
	if near.DistanceToPath == nil || *near.DistanceToPath > 200_000 {
		t.Error("expected annotated distance within 200 km")
	}
	if near.Category != domain.CategoryFallbackAsphalt {
		t.Errorf("expected fallback_asphalt category, got %s", near.Category)
	}
}

func TestAnalyze_FallbackSuppressedByLiveResults(t *testing.T) {
	gw := industrialGateway(func(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error) {
		switch category {
		case domain.CategoryAsphalt:
			return []domain.Facility{{Name: "Live Plant", Category: category, Location: domain.GeoPoint{Lat: 30.5, Lon: 31.0}}}, nil
		case domain.CategoryRubber:
			return []domain.Facility{{Name: "Live Rubber", Category: category, Location: domain.GeoPoint{Lat: 30.4, Lon: 31.0}}}, nil
		}
		return nil, nil
	})
	fb := &mockFallback{
		facilitiesFn: func(ctx context.Context) (domain.FallbackFacilities, error) { return fallbackData(), nil },
	}
	planner := newPlanner(gw, fb)

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.FallbackSets.Asphalt) != 0 {
		t.Errorf("live asphalt must suppress fallback asphalt, got %d", len(result.FallbackSets.Asphalt))
	}
	if len(result.FallbackSets.RubberRecycling) != 0 {
		t.Errorf("live rubber must suppress fallback recycling, got %d", len(result.FallbackSets.RubberRecycling))
	}
	if len(result.FallbackSets.Waste) != 0 || len(result.FallbackSets.RubberProduction) != 0 {
		t.Error("waste and rubber production must stay empty when live data exists")
	}
}

func TestAnalyze_WasteNeedsBothLiveEmpty(t *testing.T) {
	// Live rubber exists but no live asphalt: fallback asphalt activates,
	// waste and rubber production stay gated off.
	gw := industrialGateway(func(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error) {
		if category == domain.CategoryRubber {
			return []domain.Facility{{Name: "Live Rubber", Category: category, Location: domain.GeoPoint{Lat: 30.4, Lon: 31.0}}}, nil
		}
		return nil, nil
	})
	fb := &mockFallback{
		facilitiesFn: func(ctx context.Context) (domain.FallbackFacilities, error) { return fallbackData(), nil },
	}
	planner := newPlanner(gw, fb)

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.FallbackSets.Asphalt) != 1 {
		t.Errorf("expected fallback asphalt, got %d", len(result.FallbackSets.Asphalt))
	}
	if len(result.FallbackSets.Waste) != 0 || len(result.FallbackSets.RubberProduction) != 0 {
		t.Error("waste layers require both asphalt and rubber to be empty")
	}
}

func TestAnalyze_BrokenFallbackDegrades(t *testing.T) {
	fb := &mockFallback{
		facilitiesFn: func(ctx context.Context) (domain.FallbackFacilities, error) {
			return domain.FallbackFacilities{}, fmt.Errorf("catalog unavailable")
		},
	}
	planner := newPlanner(industrialGateway(nil), fb)

	result, err := planner.Analyze(context.Background(), testRoute(), nil, 5)
	if err != nil {
		t.Fatalf("broken fallback must not fail the analysis: %v", err)
	}
	if len(result.FallbackSets.Asphalt) != 0 {
		t.Errorf("expected empty fallback sets, got %d", len(result.FallbackSets.Asphalt))
	}
}

// ---- AnalyzeBidirectional ----

func TestAnalyzeBidirectional_BothSegments(t *testing.T) {
	planner := newPlanner(industrialGateway(nil), &mockFallback{})

	path := longRoute()
	result, err := planner.AnalyzeBidirectional(context.Background(), path, 100_000, domain.AnchorMid, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if result.Forward == nil || result.Reverse == nil {
		t.Fatal("expected both directions analyzed")
	}
}

func TestAnalyzeBidirectional_RejectsShortPath(t *testing.T) {
	planner := newPlanner(industrialGateway(nil), &mockFallback{})

	_, err := planner.AnalyzeBidirectional(context.Background(), domain.Path{}, 100_000, domain.AnchorMid, nil, 5)
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}
