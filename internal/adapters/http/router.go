package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/selenevara/astroatlas/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
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

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Sunset headers on routes kept only for old clients
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/transits",
			SunsetDate:  time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/profiles/{id}/transits",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Post("/profiles", timeout.NewWithContext(CreateProfileHandler(deps), 15*time.Second))
	v1.Get("/profiles", timeout.NewWithContext(ListProfilesHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id", timeout.NewWithContext(GetProfileHandler(deps), 15*time.Second))
	v1.Delete("/profiles/:id", timeout.NewWithContext(DeleteProfileHandler(deps), 15*time.Second))
	v1.Put("/profiles/:id/watch", timeout.NewWithContext(SetWatchedHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/chart", timeout.NewWithContext(ProfileChartHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/lines", timeout.NewWithContext(ProfileLinesHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/lines/nearest", timeout.NewWithContext(NearestLinesHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/lines/search", timeout.NewWithContext(LinesByKeywordHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/transits", timeout.NewWithContext(ProfileTransitsHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/hotspots/cities", timeout.NewWithContext(CityHotspotsHandler(deps), 15*time.Second))
	v1.Get("/profiles/:id/hotspots/viewport", timeout.NewWithContext(ViewportHotspotsHandler(deps), 15*time.Second))
	v1.Get("/synastry/composite", timeout.NewWithContext(CompositeChartHandler(deps), 15*time.Second))
	v1.Get("/synastry/overlay", timeout.NewWithContext(SynastryOverlayHandler(deps), 15*time.Second))
	v1.Get("/synastry/bond", timeout.NewWithContext(BondSummaryHandler(deps), 15*time.Second))
	v1.Post("/reports", timeout.NewWithContext(IssueReportHandler(deps), 15*time.Second))
	v1.Get("/reports", timeout.NewWithContext(ListReportsHandler(deps), 15*time.Second))
	v1.Get("/reports/:id", timeout.NewWithContext(GetReportHandler(deps), 15*time.Second))
	v1.Delete("/reports/:id", timeout.NewWithContext(DeleteReportHandler(deps), 15*time.Second))
	v1.Get("/cities/search", timeout.NewWithContext(SearchCitiesHandler(deps), 15*time.Second))
	v1.Get("/cities/nearby", timeout.NewWithContext(NearbyCitiesHandler(deps), 15*time.Second))
	v1.Get("/stats", timeout.NewWithContext(AtlasStatsHandler(deps), 15*time.Second))

	// Pre-1.0 transits endpoint, sunset per the middleware above
	v1.Get("/transits", timeout.NewWithContext(LegacyTransitsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
