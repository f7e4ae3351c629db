package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if the handler already set one
		if existing := c.GetRespHeader("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/cities"):
			ttl = "public, max-age=3600" // Curated city list changes rarely

		case strings.HasPrefix(path, "/v1/synastry"):
			ttl = "public, max-age=3600" // Deterministic for a fixed pair

		case strings.Contains(path, "/chart") || strings.Contains(path, "/lines"):
			ttl = "public, max-age=3600" // Charts are immutable per profile

		case strings.Contains(path, "/transits") || path == "/v1/transits":
			ttl = "public, max-age=300" // Activations shift with the scrub date

		case strings.Contains(path, "/hotspots"):
			ttl = "public, max-age=600"

		case strings.HasPrefix(path, "/v1/reports"):
			ttl = "private, max-age=0" // Mutable resources, never shared

		case strings.HasPrefix(path, "/v1/profiles"):
			ttl = "private, max-age=60" // Birth data is personal

		case path == "/v1/stats":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
