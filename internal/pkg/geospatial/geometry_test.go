package geospatial_test

import (
	"math"
	"testing"

	"github.com/yusefelshater/TransCalc/internal/pkg/geospatial"
)

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	d := geospatial.Haversine(30.0444, 31.2357, 30.0444, 31.2357)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	d1 := geospatial.Haversine(30.0444, 31.2357, 31.2001, 29.9187)
	d2 := geospatial.Haversine(31.2001, 29.9187, 30.0444, 31.2357)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("haversine not symmetric: %f vs %f", d1, d2)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Cairo to Alexandria is roughly 180 km great-circle.
	d := geospatial.Haversine(30.0444, 31.2357, 31.2001, 29.9187)
	if d < 170_000 || d > 190_000 {
		t.Errorf("Cairo-Alexandria distance out of range: %f m", d)
	}
}

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111 km everywhere.
	d := geospatial.Haversine(30, 31, 31, 31)
	if math.Abs(d-111_195) > 500 {
		t.Errorf("expected ~111195 m per degree latitude, got %f", d)
	}
}

func TestBoundingBox_ContainsCenter(t *testing.T) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(30.0, 31.0, 1000)
	if minLat >= 30.0 || maxLat <= 30.0 || minLon >= 31.0 || maxLon <= 31.0 {
		t.Errorf("bbox does not contain center: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}
}

func TestMetersPerDegree_Equator(t *testing.T) {
	perLat, perLon := geospatial.MetersPerDegree(0)
	if math.Abs(perLat-110_574) > 100 {
		t.Errorf("meters per degree latitude at equator: got %f", perLat)
	}
	if math.Abs(perLon-111_320) > 100 {
		t.Errorf("meters per degree longitude at equator: got %f", perLon)
	}
}

func TestMetersPerDegree_LongitudeShrinksWithLatitude(t *testing.T) {
	_, lonEq := geospatial.MetersPerDegree(0)
	_, lonMid := geospatial.MetersPerDegree(45)
	_, lonHigh := geospatial.MetersPerDegree(60)
	if !(lonEq > lonMid && lonMid > lonHigh) {
		t.Errorf("longitude scale should shrink with latitude: %f %f %f", lonEq, lonMid, lonHigh)
	}
}

func TestPointToSegment_OnSegment(t *testing.T) {
	// Midpoint of the segment itself.
	d := geospatial.PointToSegment(30.0, 31.05, 30.0, 31.0, 30.0, 31.1)
	if d > 1.0 {
		t.Errorf("point on segment should be ~0 m away, got %f", d)
	}
}

func TestPointToSegment_ClampsToEndpoints(t *testing.T) {
	// Point beyond the b endpoint: distance is to b, not the infinite line.
	d := geospatial.PointToSegment(30.0, 31.2, 30.0, 31.0, 30.0, 31.1)
	want := geospatial.Haversine(30.0, 31.2, 30.0, 31.1)
	if math.Abs(d-want) > want*0.01 {
		t.Errorf("expected clamp to endpoint distance ~%f, got %f", want, d)
	}
}

func TestPointToSegment_DegenerateSegment(t *testing.T) {
	d := geospatial.PointToSegment(30.1, 31.0, 30.0, 31.0, 30.0, 31.0)
	want := geospatial.Haversine(30.1, 31.0, 30.0, 31.0)
	if math.Abs(d-want) > want*0.01 {
		t.Errorf("degenerate segment should report point distance ~%f, got %f", want, d)
	}
}

func TestSegmentProjection_Parameter(t *testing.T) {
	t1, _, segLen := geospatial.SegmentProjection(30.0, 31.025, 30.0, 31.0, 30.0, 31.1)
	if t1 < 0.2 || t1 > 0.3 {
		t.Errorf("expected projection parameter ~0.25, got %f", t1)
	}
	if segLen <= 0 {
		t.Errorf("expected positive segment length, got %f", segLen)
	}

	tBefore, _, _ := geospatial.SegmentProjection(30.0, 30.9, 30.0, 31.0, 30.0, 31.1)
	if tBefore != 0 {
		t.Errorf("expected t clamped to 0, got %f", tBefore)
	}
	tAfter, _, _ := geospatial.SegmentProjection(30.0, 31.2, 30.0, 31.0, 30.0, 31.1)
	if tAfter != 1 {
		t.Errorf("expected t clamped to 1, got %f", tAfter)
	}
}
