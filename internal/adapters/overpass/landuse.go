package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/pkg/metrics"
)

// Land context lookups are advisory, so they run with a tighter timeout and
// a single extra round.
const (
	landuseTimeout = 30 * time.Second
	landuseRetries = 1

	landuseRadiusM      = 250.0
	neutralLanduseScore = 0.5

	// Shared-cache TTL for land-use entries.
	landuseCacheTTLSeconds = 86400

	// Building count assumed when the density lookup fails: positive enough
	// to soften the score, small enough not to zero it.
	fallbackBuildingCount = 3
)

// landuseScores maps OSM land-use tags to siting suitability. Tags not
// listed score the neutral 0.5.
var landuseScores = map[string]float64{
	"industrial":   1.0,
	"brownfield":   0.9,
	"construction": 0.8,
	"greenfield":   0.75,
	"quarry":       0.7,
	"landfill":     0.7,
	"meadow":       0.6,
	"grass":        0.6,
	"farmland":     0.45,
	"commercial":   0.35,
	"retail":       0.25,
	"forest":       0.20,
	"residential":  0.0,
	"military":     0.0,
	"cemetery":     0.0,
	"reservoir":    0.0,
}

// LanduseNear returns the land-use tag of the closest tagged way or relation
// within radiusMeters of p. Lookup failures and empty results both report
// ok=false.
func (c *Client) LanduseNear(ctx context.Context, p domain.GeoPoint, radiusMeters float64) (string, bool) {
	resp, err := c.post(ctx, landuseQuery(p, radiusMeters), landuseTimeout, landuseRetries)
	if err != nil {
		return "", false
	}

	best := ""
	bestDist := math.Inf(1)
	for _, el := range resp.Elements {
		tag := el.Tags["landuse"]
		if tag == "" {
			continue
		}
		loc, ok := el.coordinate()
		if !ok {
			continue
		}
		if d := p.Distance(loc); d < bestDist {
			bestDist = d
			best = tag
		}
	}
	return best, best != ""
}

// LanduseScore maps the land use near p to a suitability score in [0,1] plus
// the raw tag. Results (including failed lookups, which score neutral) are
// cached per coordinate rounded to five decimals; an optional shared cache
// spares repeated Overpass round-trips across processes.
func (c *Client) LanduseScore(ctx context.Context, p domain.GeoPoint) (float64, string) {
	key := fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)

	c.mu.Lock()
	if entry, ok := c.landuse[key]; ok {
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues("landuse").Inc()
		return entry.Score, entry.Label
	}
	c.mu.Unlock()

	if c.shared != nil {
		if raw, err := c.shared.Get(ctx, "landuse:"+key); err == nil && len(raw) > 0 {
			var entry landuseEntry
			if json.Unmarshal(raw, &entry) == nil {
				metrics.CacheHits.WithLabelValues("landuse").Inc()
				c.remember(key, entry)
				return entry.Score, entry.Label
			}
		}
	}
	metrics.CacheMisses.WithLabelValues("landuse").Inc()

	entry := landuseEntry{Score: neutralLanduseScore}
	if tag, ok := c.LanduseNear(ctx, p, landuseRadiusM); ok {
		tag = strings.ToLower(tag)
		score, known := landuseScores[tag]
		if !known {
			score = neutralLanduseScore
		}
		entry = landuseEntry{Score: score, Label: tag}
	}

	c.remember(key, entry)
	if c.shared != nil {
		if raw, err := json.Marshal(entry); err == nil {
			_ = c.shared.Set(ctx, "landuse:"+key, raw, landuseCacheTTLSeconds)
		}
	}
	return entry.Score, entry.Label
}

// BuildingDensity counts buildings within radiusMeters of p. Failed lookups
// report a small positive count so scoring degrades instead of zeroing out.
func (c *Client) BuildingDensity(ctx context.Context, p domain.GeoPoint, radiusMeters float64) int {
	resp, err := c.post(ctx, buildingsQuery(p, radiusMeters), landuseTimeout, landuseRetries)
	if err != nil {
		return fallbackBuildingCount
	}
	return len(resp.Elements)
}

func (c *Client) remember(key string, entry landuseEntry) {
	c.mu.Lock()
	c.landuse[key] = entry
	c.mu.Unlock()
}
