package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// MetersPerDegree returns the local scale factors in meters per degree of
// latitude and longitude at the given latitude, from the standard series
// expansion of the WGS 84 ellipse.
func MetersPerDegree(lat float64) (perDegLat, perDegLon float64) {
	phi := toRad(lat)
	perDegLat = 111132.92 - 559.82*math.Cos(2*phi) + 1.175*math.Cos(4*phi)
	perDegLon = 111412.84*math.Cos(phi) - 93.5*math.Cos(3*phi)
	return perDegLat, perDegLon
}

// PointToSegment returns the distance in meters from point p to the segment
// a-b. The segment is projected into a local planar frame scaled at its
// midpoint latitude; the projection parameter is clamped so distances are
// measured to the segment, not the infinite line. Near-zero-length segments
// degrade to plain point distance.
func PointToSegment(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	_, dist, _ := SegmentProjection(pLat, pLon, aLat, aLon, bLat, bLon)
	return dist
}

// SegmentProjection projects point p onto the segment a-b in a local planar
// frame scaled at the segment midpoint latitude. It returns the projection
// parameter t clamped to [0,1], the distance in meters from p to the
// projected point, and the planar segment length in meters. Near-zero-length
// segments report t=0, the plain point distance and a zero length.
func SegmentProjection(pLat, pLon, aLat, aLon, bLat, bLon float64) (t, dist, segLen float64) {
	perDegLat, perDegLon := MetersPerDegree((aLat + bLat) / 2)

	ax, ay := aLon*perDegLon, aLat*perDegLat
	bx, by := bLon*perDegLon, bLat*perDegLat
	px, py := pLon*perDegLon, pLat*perDegLat

	vx, vy := bx-ax, by-ay
	segLenSq := vx*vx + vy*vy
	if segLenSq <= 1e-9 {
		return 0, math.Hypot(px-ax, py-ay), 0
	}

	t = ((px-ax)*vx + (py-ay)*vy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx, cy := ax+t*vx, ay+t*vy
	return t, math.Hypot(px-cx, py-cy), math.Hypot(vx, vy)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
