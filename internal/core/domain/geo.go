package domain

import (
	"math"

	"github.com/yusefelshater/TransCalc/internal/pkg/geospatial"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the great-circle distance in meters to another point.
func (p GeoPoint) Distance(q GeoPoint) float64 {
	return geospatial.Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
}

// Path is an ordered sequence of route points. Geometry operations require at
// least two points; shorter inputs degrade to the documented fallbacks rather
// than panic.
type Path []GeoPoint

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Pad returns the bounds grown by the given margin in degrees on every side.
func (b Bounds) Pad(deg float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - deg,
		MinLon: b.MinLon - deg,
		MaxLat: b.MaxLat + deg,
		MaxLon: b.MaxLon + deg,
	}
}

// SliceAnchor selects the reference vertex a path slice grows from.
type SliceAnchor string

// Anchor positions for Path.Slice. Unknown values behave as AnchorMid.
const (
	AnchorStart SliceAnchor = "start"
	AnchorMid   SliceAnchor = "mid"
	AnchorEnd   SliceAnchor = "end"
)

// SliceDirection selects the walk direction for Path.Slice. Unknown values
// behave as DirectionForward.
type SliceDirection string

const (
	DirectionForward SliceDirection = "forward"
	DirectionReverse SliceDirection = "reverse"
)

// Bounds returns the tight bounding box of the path vertices.
func (path Path) Bounds() Bounds {
	if len(path) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: path[0].Lat, MinLon: path[0].Lon,
		MaxLat: path[0].Lat, MaxLon: path[0].Lon,
	}
	for _, p := range path[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}

// Cumulative returns the running distance in meters along the path, one entry
// per vertex, starting at 0.
func (path Path) Cumulative() []float64 {
	cd := make([]float64, 0, len(path))
	if len(path) == 0 {
		return cd
	}
	cd = append(cd, 0)
	for i := 1; i < len(path); i++ {
		cd = append(cd, cd[i-1]+path[i-1].Distance(path[i]))
	}
	return cd
}

// TotalLength returns the path length in meters.
func (path Path) TotalLength() float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}

// MinDistanceTo returns the minimum distance in meters from p to any segment
// of the path. Paths with fewer than two vertices have no segments and report
// +Inf.
func (path Path) MinDistanceTo(p GeoPoint) float64 {
	dmin := math.Inf(1)
	for i := 0; i < len(path)-1; i++ {
		d := geospatial.PointToSegment(p.Lat, p.Lon,
			path[i].Lat, path[i].Lon, path[i+1].Lat, path[i+1].Lon)
		if d < dmin {
			dmin = d
		}
	}
	return dmin
}

// Midpoint returns the point at half the total path length, interpolating
// linearly inside the bracketing segment. Degenerate paths fall back to the
// middle vertex.
func (path Path) Midpoint() GeoPoint {
	if len(path) == 0 {
		return GeoPoint{}
	}
	if len(path) < 2 {
		return path[0]
	}
	cd := path.Cumulative()
	total := cd[len(cd)-1]
	if total <= 1e-9 {
		return path[len(path)/2]
	}
	return path.interpolateAt(cd, total/2)
}

// PointAt returns the point located s meters from the start of the path,
// clamped to the path endpoints.
func (path Path) PointAt(s float64) GeoPoint {
	if len(path) == 0 {
		return GeoPoint{}
	}
	if len(path) < 2 {
		return path[0]
	}
	cd := path.Cumulative()
	total := cd[len(cd)-1]
	if total <= 1e-9 || s <= 0 {
		return path[0]
	}
	if s >= total {
		return path[len(path)-1]
	}
	return path.interpolateAt(cd, s)
}

func (path Path) interpolateAt(cd []float64, target float64) GeoPoint {
	for i := 1; i < len(path); i++ {
		if cd[i] >= target {
			segLen := cd[i] - cd[i-1]
			if segLen <= 1e-9 {
				return path[i]
			}
			t := (target - cd[i-1]) / segLen
			return GeoPoint{
				Lat: path[i-1].Lat + t*(path[i].Lat-path[i-1].Lat),
				Lon: path[i-1].Lon + t*(path[i].Lon-path[i-1].Lon),
			}
		}
	}
	return path[len(path)-1]
}

// FractionAlong returns the fractional position in [0,1] along the path of
// the nearest projection of p onto the polyline. Degenerate paths report 0.5
// so callers treating the value as "distance from either end" stay neutral.
func (path Path) FractionAlong(p GeoPoint) float64 {
	if len(path) < 2 {
		return 0.5
	}
	cd := path.Cumulative()
	total := cd[len(cd)-1]
	if total <= 1e-9 {
		return 0.5
	}

	bestDist := math.Inf(1)
	bestArc := 0.0
	for i := 0; i < len(path)-1; i++ {
		t, dist, segLen := geospatial.SegmentProjection(p.Lat, p.Lon,
			path[i].Lat, path[i].Lon, path[i+1].Lat, path[i+1].Lon)
		arc := cd[i] + t*segLen
		if dist < bestDist {
			bestDist = dist
			bestArc = arc
		}
	}

	frac := bestArc / total
	return math.Max(0, math.Min(1, frac))
}

// Slice extracts a contiguous segment of roughly targetMeters length, grown
// from the anchor vertex in the given direction. A target at or beyond the
// total length returns a copy of the whole path, reversed for
// DirectionReverse. Partial slices are always returned in original vertex
// order regardless of direction.
func (path Path) Slice(targetMeters float64, anchor SliceAnchor, direction SliceDirection) Path {
	if len(path) < 2 {
		return append(Path{}, path...)
	}
	target := math.Max(0, targetMeters)
	if target <= 0 {
		return path.copyOriented(direction)
	}

	cd := path.Cumulative()
	total := cd[len(cd)-1]
	if total <= 1e-6 || target >= total {
		return path.copyOriented(direction)
	}

	var idx int
	switch anchor {
	case AnchorStart:
		idx = 0
	case AnchorEnd:
		idx = len(path) - 1
	default:
		half := total / 2
		best := math.Inf(1)
		for i, d := range cd {
			if gap := math.Abs(d - half); gap < best {
				best = gap
				idx = i
			}
		}
	}

	if direction == DirectionReverse {
		j := idx
		dist := 0.0
		for j > 0 && dist < target {
			dist += path[j].Distance(path[j-1])
			j--
		}
		return append(Path{}, path[j:idx+1]...)
	}

	j := idx
	dist := 0.0
	for j < len(path)-1 && dist < target {
		dist += path[j].Distance(path[j+1])
		j++
	}
	return append(Path{}, path[idx:j+1]...)
}

func (path Path) copyOriented(direction SliceDirection) Path {
	out := append(Path{}, path...)
	if direction == DirectionReverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
