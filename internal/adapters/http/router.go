package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/skysurvey/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = 120
	}
	reqTimeout := deps.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = 15 * time.Second
	}
	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, reqTimeout)
	}

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting per IP
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Path planning
	v1.Post("/paths", withTimeout(GeneratePathHandler(deps)))
	v1.Post("/paths/geojson", withTimeout(GeneratePathGeoJSONHandler(deps)))

	// Missions
	v1.Get("/missions", withTimeout(ListMissionsHandler(deps)))
	v1.Post("/missions", withTimeout(CreateMissionHandler(deps)))
	v1.Get("/missions/:id", withTimeout(GetMissionHandler(deps)))
	v1.Get("/missions/:id/path", withTimeout(MissionPathHandler(deps)))
	v1.Post("/missions/:id/start", withTimeout(MissionTransitionHandler(deps.Missions.Start)))
	v1.Post("/missions/:id/pause", withTimeout(MissionTransitionHandler(deps.Missions.Pause)))
	v1.Post("/missions/:id/resume", withTimeout(MissionTransitionHandler(deps.Missions.Resume)))
	v1.Post("/missions/:id/complete", withTimeout(MissionTransitionHandler(deps.Missions.Complete)))
	v1.Post("/missions/:id/abort", withTimeout(MissionTransitionHandler(deps.Missions.Abort)))
	v1.Put("/missions/:id/progress", withTimeout(MissionProgressHandler(deps)))

	// Fleet
	v1.Get("/drones", withTimeout(ListDronesHandler(deps)))
	v1.Get("/drones/:id", withTimeout(GetDroneHandler(deps)))

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
