package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with a sunset date.
type DeprecatedRoute struct {
	Path        string    // route pattern, may contain :params
	SunsetDate  time.Time // date when the endpoint will be removed
	Alternative string    // recommended replacement endpoint (optional)
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers (RFC 8594,
// RFC 8288) to deprecated endpoints so clients can migrate before removal.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}

			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}
			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern compares a request path against a route pattern, treating
// :param segments as wildcards (e.g. "/v1/exports/:format" matches
// "/v1/exports/csv").
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}

	pathSegs := strings.Split(path, "/")
	patSegs := strings.Split(pattern, "/")
	if len(pathSegs) != len(patSegs) {
		return false
	}
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}
