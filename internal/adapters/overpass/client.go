// Package overpass implements the facility gateway against the Overpass API,
// walking a list of public mirrors with bounded retries between rounds.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
	"github.com/yusefelshater/TransCalc/internal/pkg/metrics"
)

// Default client tuning, applied by New for zero Options fields.
const (
	DefaultTimeout = 45 * time.Second
	DefaultRetries = 2
)

// DefaultEndpoints returns the public Overpass mirrors, tried in order.
func DefaultEndpoints() []string {
	return []string{
		"https://overpass-api.de/api/interpreter",
		"https://overpass.kumi.systems/api/interpreter",
		"https://overpass.osm.ch/api/interpreter",
		"https://overpass.nchc.org.tw/api/interpreter",
	}
}

// DefaultBackoff returns the pauses between retry rounds. The last entry
// repeats for any later round.
func DefaultBackoff() []time.Duration {
	return []time.Duration{1 * time.Second, 3 * time.Second, 6 * time.Second}
}

// Options configures a Client. Empty endpoint, timeout and backoff fields
// fall back to the package defaults; a zero MaxRetries genuinely means no
// rounds beyond the first.
type Options struct {
	Endpoints  []string
	Timeout    time.Duration
	MaxRetries int
	Backoff    []time.Duration
	Verbose    bool
	// Cache optionally shares land-use lookups across processes.
	Cache ports.CacheService
}

// Client queries the Overpass API. It implements ports.FacilityGateway.
type Client struct {
	endpoints []string
	timeout   time.Duration
	retries   int
	backoff   []time.Duration
	verbose   bool
	shared    ports.CacheService
	http      *http.Client

	mu      sync.Mutex
	landuse map[string]landuseEntry
}

type landuseEntry struct {
	Score float64 `json:"score"`
	Label string  `json:"label,omitempty"`
}

// New creates a Client.
func New(opts Options) *Client {
	endpoints := opts.Endpoints
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	backoff := opts.Backoff
	if len(backoff) == 0 {
		backoff = DefaultBackoff()
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		endpoints: endpoints,
		timeout:   timeout,
		retries:   retries,
		backoff:   backoff,
		verbose:   opts.Verbose,
		shared:    opts.Cache,
		http:      &http.Client{},
		landuse:   make(map[string]landuseEntry),
	}
}

// QueryFacilities returns the facilities of one category inside bounds.
func (c *Client) QueryFacilities(ctx context.Context, bounds domain.Bounds, category domain.Category) ([]domain.Facility, error) {
	query, ok := categoryQuery(bounds, category)
	if !ok {
		return []domain.Facility{}, nil
	}

	start := time.Now()
	resp, err := c.post(ctx, query, c.timeout, c.retries)
	if err != nil {
		return nil, fmt.Errorf("overpass %s query: %w", category, err)
	}
	metrics.OverpassQueryDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())

	out := make([]domain.Facility, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		loc, ok := el.coordinate()
		if !ok {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = el.Tags["operator"]
		}
		if name == "" {
			name = string(category)
		}
		out = append(out, domain.Facility{
			ID:       el.ID,
			Name:     name,
			Category: category,
			Location: loc,
		})
	}
	metrics.FacilitiesFound.WithLabelValues(string(category)).Add(float64(len(out)))
	return out, nil
}

// post submits one Overpass QL query: every mirror is tried per round, with
// the backoff schedule slept between rounds. The last attempt error is
// returned once all rounds are exhausted.
func (c *Client) post(ctx context.Context, query string, timeout time.Duration, maxRetries int) (*response, error) {
	var lastErr error
	for round := 0; round <= maxRetries; round++ {
		for _, endpoint := range c.endpoints {
			if c.verbose {
				slog.Info("overpass attempt",
					"round", round+1, "rounds", maxRetries+1, "url", endpoint, "timeout", timeout)
			}
			resp, err := c.attempt(ctx, endpoint, query, timeout)
			if err == nil {
				return resp, nil
			}
			lastErr = err
			metrics.OverpassErrors.WithLabelValues(endpoint).Inc()
			if c.verbose {
				slog.Warn("overpass attempt failed", "url", endpoint, "error", err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
		if round < maxRetries {
			wait := c.backoff[min(round, len(c.backoff)-1)]
			if c.verbose {
				slog.Info("overpass retrying", "wait", wait)
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no overpass endpoints configured")
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, endpoint, query string, timeout time.Duration) (*response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	metrics.OverpassAttempts.WithLabelValues(endpoint).Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("overpass status %d from %s", resp.StatusCode, endpoint)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return &out, nil
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string   `json:"type"`
	ID     int64    `json:"id"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// coordinate resolves the element position: nodes carry lat/lon directly,
// ways and relations the center from "out center". Elements missing both
// are dropped.
func (el element) coordinate() (domain.GeoPoint, bool) {
	if el.Type == "node" {
		if el.Lat != nil && el.Lon != nil {
			return domain.GeoPoint{Lat: *el.Lat, Lon: *el.Lon}, true
		}
		return domain.GeoPoint{}, false
	}
	if el.Center != nil {
		return domain.GeoPoint{Lat: el.Center.Lat, Lon: el.Center.Lon}, true
	}
	return domain.GeoPoint{}, false
}
