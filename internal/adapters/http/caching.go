package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheTTL picks a Cache-Control value for a GET endpoint. Geodata moves
// slowly; land cover even more so. System checks stay near-real-time.
func cacheTTL(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"
	case path == "/v1/weights/defaults":
		return "public, max-age=3600"
	case path == "/metrics":
		return "no-cache"
	case path == "/graphql":
		return "private, max-age=0"
	case strings.HasPrefix(path, "/v1/facilities"):
		return "public, max-age=300"
	case strings.HasPrefix(path, "/v1/landuse"):
		return "public, max-age=3600"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=300"
	}
	return ""
}

// CachingMiddleware sets Cache-Control on GET responses unless the handler
// already chose one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if c.Get("Cache-Control") != "" {
			return err
		}
		if ttl := cacheTTL(c.Path()); ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}
