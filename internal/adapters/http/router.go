package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
	"github.com/samirrijal/trailview/internal/pkg/telemetry"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, page and WebSocket routes.
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

	// Server spans (no-op until a tracer provider is installed)
	app.Use(telemetry.Middleware())

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
			return newError(c, 429, "rate_limited", "too many requests, please try again later")
		},
		// Map clients report a camera state after every pan, keep them out of the budget.
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/ws"
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

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/routes", timeout.NewWithContext(ListRoutesHandler(deps), requestTimeout))
	v1.Post("/routes", timeout.NewWithContext(CreateRouteHandler(deps), requestTimeout))
	v1.Get("/routes/:slug", timeout.NewWithContext(GetRouteHandler(deps), requestTimeout))
	v1.Delete("/routes/:slug", timeout.NewWithContext(DeleteRouteHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/geojson", timeout.NewWithContext(RouteGeoJSONHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/gpx", timeout.NewWithContext(RouteGPXHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/profile", timeout.NewWithContext(ProfileHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/summary", timeout.NewWithContext(SummaryHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/view", timeout.NewWithContext(ViewHandler(deps), requestTimeout))
	v1.Get("/routes/:slug/camera", timeout.NewWithContext(LatestCameraHandler(deps), requestTimeout))
	v1.Post("/routes/:slug/camera", timeout.NewWithContext(ReportCameraHandler(deps), requestTimeout))
	v1.Get("/variants", ListVariantsHandler(deps))
	v1.Get("/variants/:name", GetVariantHandler(deps))
	v1.Post("/imports", timeout.NewWithContext(StartImportHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.OpenAPIPath)

	// Route page
	app.Get("/routes/:slug", timeout.NewWithContext(RoutePageHandler(deps), requestTimeout))

	// WebSocket map sessions
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
