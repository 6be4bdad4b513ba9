package overpass

import (
	"fmt"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// categoryQuery renders the Overpass QL statement for a facility category
// inside a bounding box. Nodes answer with coordinates directly; ways and
// relations answer with their center. Unknown categories report ok=false.
func categoryQuery(b domain.Bounds, category domain.Category) (string, bool) {
	bbox := fmt.Sprintf("(%g,%g,%g,%g)", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)

	switch category {
	case domain.CategoryAsphalt:
		// Asphalt plants are tagged inconsistently; match the common variants.
		return `[out:json][timeout:25];
(
  node["industrial"="asphalt"]` + bbox + `;
  node["plant"="asphalt"]` + bbox + `;
  node["product"="asphalt"]` + bbox + `;
  way["industrial"="asphalt"]` + bbox + `;
  way["plant"="asphalt"]` + bbox + `;
);
out center tags;`, true

	case domain.CategoryQuarry:
		return `[out:json][timeout:25];
(
  node["landuse"="quarry"]` + bbox + `;
  way["landuse"="quarry"]` + bbox + `;
);
out center tags;`, true

	case domain.CategoryRubber:
		return `[out:json][timeout:25];
(
  node["amenity"="recycling"]["recycling:rubber"="yes"]` + bbox + `;
  way["amenity"="recycling"]["recycling:rubber"="yes"]` + bbox + `;
);
out center tags;`, true

	case domain.CategoryHighway:
		// Motorway/trunk nodes approximate corridor proximity while keeping
		// the response light.
		return `[out:json][timeout:25];
(
  node["highway"~"^(motorway|trunk)$"]` + bbox + `;
);
out body;`, true

	case domain.CategoryReadyMix:
		return `[out:json][timeout:25];
(
  node["industrial"="concrete"]` + bbox + `;
  node["plant"="concrete"]` + bbox + `;
  way["industrial"="concrete"]` + bbox + `;
  way["plant"="concrete"]` + bbox + `;
);
out center tags;`, true

	case domain.CategoryBitumen:
		// Bitumen depots are sparse in OSM; match product tags and tagged
		// storage tanks.
		return `[out:json][timeout:25];
(
  node["product"~"bitumen|asphalt"]` + bbox + `;
  way["product"~"bitumen|asphalt"]` + bbox + `;
  node["man_made"="storage_tank"]["substance"~"bitumen|asphalt"]` + bbox + `;
  way["man_made"="storage_tank"]["substance"~"bitumen|asphalt"]` + bbox + `;
);
out center tags;`, true
	}

	return "", false
}

// landuseQuery matches land-use ways and relations around a point.
func landuseQuery(p domain.GeoPoint, radiusMeters float64) string {
	return fmt.Sprintf(`[out:json][timeout:25];
(
  way(around:%d,%g,%g)["landuse"];
  relation(around:%d,%g,%g)["landuse"];
);
out center tags;`, int(radiusMeters), p.Lat, p.Lon, int(radiusMeters), p.Lat, p.Lon)
}

// buildingsQuery counts buildings around a point; only IDs are requested.
func buildingsQuery(p domain.GeoPoint, radiusMeters float64) string {
	return fmt.Sprintf(`[out:json][timeout:20];
(
  way(around:%d,%g,%g)["building"];
  relation(around:%d,%g,%g)["building"];
);
out ids;`, int(radiusMeters), p.Lat, p.Lon, int(radiusMeters), p.Lat, p.Lon)
}
