package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/yusefelshater/TransCalc/internal/pkg/metrics"
)

// Analyses trigger live Overpass queries with their own retry budget, so
// they get a much longer per-request timeout than plain lookups.
const (
	analysisTimeout = 10 * time.Minute
	lookupTimeout   = 90 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 60 requests per minute per IP. Analyses fan out to
	// public Overpass mirrors, so the API is deliberately conservative.
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Deprecated aliases from the pre-release API
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/analyze",
			SunsetDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/analyses",
		},
	}))

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Post("/analyses", timeout.NewWithContext(CreateAnalysisHandler(deps), analysisTimeout))
	v1.Post("/analyze", timeout.NewWithContext(CreateAnalysisHandler(deps), analysisTimeout)) // deprecated alias
	v1.Get("/facilities", timeout.NewWithContext(ListFacilitiesHandler(deps), lookupTimeout))
	v1.Get("/landuse", timeout.NewWithContext(LanduseHandler(deps), lookupTimeout))
	v1.Get("/weights/defaults", DefaultWeightsHandler())
	v1.Post("/pavement/report", timeout.NewWithContext(PavementReportHandler(deps), 15*time.Second))
	v1.Post("/exports/:format", timeout.NewWithContext(ExportHandler(deps), 30*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket progress relay (requires NATS)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			if deps.NATS == nil {
				return fiber.ErrServiceUnavailable
			}
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
