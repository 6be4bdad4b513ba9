package domain_test

import (
	"math"
	"testing"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// northRoute is a straight ~111 km run of latitude at constant longitude.
func northRoute() domain.Path {
	return domain.Path{
		{Lat: 30.0, Lon: 31.0},
		{Lat: 30.25, Lon: 31.0},
		{Lat: 30.5, Lon: 31.0},
		{Lat: 30.75, Lon: 31.0},
		{Lat: 31.0, Lon: 31.0},
	}
}

func TestPath_Bounds(t *testing.T) {
	path := domain.Path{
		{Lat: 30.5, Lon: 31.2},
		{Lat: 30.0, Lon: 31.8},
		{Lat: 31.0, Lon: 31.0},
	}
	b := path.Bounds()
	if b.MinLat != 30.0 || b.MaxLat != 31.0 || b.MinLon != 31.0 || b.MaxLon != 31.8 {
		t.Errorf("unexpected bounds: %+v", b)
	}

	padded := b.Pad(0.5)
	if padded.MinLat != 29.5 || padded.MaxLon != 32.3 {
		t.Errorf("unexpected padded bounds: %+v", padded)
	}
}

func TestPath_CumulativeMonotonic(t *testing.T) {
	cd := northRoute().Cumulative()
	if len(cd) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(cd))
	}
	if cd[0] != 0 {
		t.Errorf("cumulative must start at 0, got %f", cd[0])
	}
	for i := 1; i < len(cd); i++ {
		if cd[i] <= cd[i-1] {
			t.Errorf("cumulative not increasing at %d: %f <= %f", i, cd[i], cd[i-1])
		}
	}
	if total := northRoute().TotalLength(); math.Abs(total-cd[len(cd)-1]) > 1e-6 {
		t.Errorf("total length %f disagrees with cumulative %f", total, cd[len(cd)-1])
	}
}

func TestPath_MidpointAtHalfLength(t *testing.T) {
	path := northRoute()
	mid := path.Midpoint()

	total := path.TotalLength()
	dStart := path[0].Distance(mid)
	if math.Abs(dStart-total/2) > total*0.01 {
		t.Errorf("midpoint should sit at half length: total=%f, from start=%f", total, dStart)
	}
}

func TestPath_PointAtClamps(t *testing.T) {
	path := northRoute()
	if p := path.PointAt(-10); p != path[0] {
		t.Errorf("negative arc should clamp to start, got %+v", p)
	}
	if p := path.PointAt(1e9); p != path[len(path)-1] {
		t.Errorf("excess arc should clamp to end, got %+v", p)
	}

	quarter := path.PointAt(path.TotalLength() / 4)
	if quarter.Lat < 30.2 || quarter.Lat > 30.3 {
		t.Errorf("quarter point latitude out of range: %f", quarter.Lat)
	}
}

func TestPath_MinDistanceTo(t *testing.T) {
	path := northRoute()

	on := domain.GeoPoint{Lat: 30.5, Lon: 31.0}
	if d := path.MinDistanceTo(on); d > 1.0 {
		t.Errorf("point on path should be ~0 m away, got %f", d)
	}

	// ~0.1 degrees of longitude east of the route at lat 30 is ~9.6 km.
	off := domain.GeoPoint{Lat: 30.5, Lon: 31.1}
	d := path.MinDistanceTo(off)
	if d < 9_000 || d > 10_500 {
		t.Errorf("offset distance out of range: %f", d)
	}

	short := domain.Path{{Lat: 30, Lon: 31}}
	if d := short.MinDistanceTo(on); !math.IsInf(d, 1) {
		t.Errorf("single-vertex path should report +Inf, got %f", d)
	}
}

func TestPath_FractionAlong(t *testing.T) {
	path := northRoute()

	if f := path.FractionAlong(path[0]); f > 0.01 {
		t.Errorf("start fraction should be ~0, got %f", f)
	}
	if f := path.FractionAlong(path[len(path)-1]); f < 0.99 {
		t.Errorf("end fraction should be ~1, got %f", f)
	}
	if f := path.FractionAlong(domain.GeoPoint{Lat: 30.5, Lon: 31.05}); math.Abs(f-0.5) > 0.02 {
		t.Errorf("mid fraction should be ~0.5, got %f", f)
	}

	degenerate := domain.Path{{Lat: 30, Lon: 31}}
	if f := degenerate.FractionAlong(path[0]); f != 0.5 {
		t.Errorf("degenerate path should report 0.5, got %f", f)
	}
}

func TestPath_SliceWithinTarget(t *testing.T) {
	path := northRoute()
	total := path.TotalLength()

	slice := path.Slice(total/2, domain.AnchorStart, domain.DirectionForward)
	if len(slice) < 2 {
		t.Fatalf("expected at least 2 vertices, got %d", len(slice))
	}
	if slice[0] != path[0] {
		t.Errorf("start-anchored slice must begin at the first vertex")
	}
	// The slice walks whole vertices, so it can overshoot by at most one
	// segment (~27.8 km here).
	segment := path[0].Distance(path[1])
	if got := slice.TotalLength(); got < total/2-1 || got > total/2+segment+1 {
		t.Errorf("slice length %f outside [%f, %f]", got, total/2, total/2+segment)
	}
}

func TestPath_SliceFullTargetCopies(t *testing.T) {
	path := northRoute()
	slice := path.Slice(path.TotalLength()*2, domain.AnchorMid, domain.DirectionForward)
	if len(slice) != len(path) {
		t.Fatalf("oversized target should copy the whole path, got %d vertices", len(slice))
	}
	for i := range path {
		if slice[i] != path[i] {
			t.Errorf("vertex %d differs", i)
		}
	}
}

func TestPath_SliceReverseFullIsReversed(t *testing.T) {
	path := northRoute()
	rev := path.Slice(path.TotalLength()*2, domain.AnchorMid, domain.DirectionReverse)
	if len(rev) != len(path) {
		t.Fatalf("expected full copy, got %d vertices", len(rev))
	}
	for i := range path {
		if rev[i] != path[len(path)-1-i] {
			t.Errorf("vertex %d not reversed", i)
		}
	}
}

func TestPath_SliceForwardReverseFromMid(t *testing.T) {
	path := northRoute()
	target := path.TotalLength() / 4

	fwd := path.Slice(target, domain.AnchorMid, domain.DirectionForward)
	rev := path.Slice(target, domain.AnchorMid, domain.DirectionReverse)

	// Both grow from the mid vertex: forward ends later, reverse starts earlier.
	if fwd[0] != path[2] {
		t.Errorf("forward slice should start at mid vertex, got %+v", fwd[0])
	}
	if rev[len(rev)-1] != path[2] {
		t.Errorf("reverse slice should end at mid vertex, got %+v", rev[len(rev)-1])
	}
}

func TestWeightSet_GetAndSum(t *testing.T) {
	w := domain.WeightSet{"a": 2, "b": 3, "c": -1}
	if got := w.Get("a", 9); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if got := w.Get("missing", 9); got != 9 {
		t.Errorf("expected fallback 9, got %f", got)
	}
	if got := w.Sum(); got != 5 {
		t.Errorf("negative weights must not count, expected 5, got %f", got)
	}
	if got := (domain.WeightSet{}).Sum(); got != 1 {
		t.Errorf("empty set must normalize with 1, got %f", got)
	}
}

func TestDefaultWeights_Complete(t *testing.T) {
	w := domain.DefaultWeights()
	for _, name := range []string{
		domain.WeightRoadProximity,
		domain.WeightMidpoint,
		domain.WeightQuarryProximity,
		domain.WeightRubberProximity,
		domain.WeightLandusePreference,
		domain.WeightHighwayProximity,
		domain.WeightBitumenProximity,
	} {
		if _, ok := w[name]; !ok {
			t.Errorf("missing default weight %s", name)
		}
	}
	if _, ok := w[domain.WeightReadyMixProximity]; ok {
		t.Error("ready_mix_proximity must not be in the default weighted total")
	}
}
