package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// quietPaths are polled by orchestrators and scrapers and log at debug.
var quietPaths = map[string]bool{
	"/v1/health": true,
	"/v1/ready":  true,
	"/metrics":   true,
}

// AccessLogMiddleware writes one "http request" line per request through the
// request-scoped logger. Lines for a route carry its slug, plus the variant
// or unit the client asked for.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The error handler runs after us, so derive the status it will write.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("pattern", c.Route().Path),
			slog.Int("status", status),
			slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			slog.Int("bytes_out", len(c.Response().Body())),
		}
		attrs = append(attrs, routeAttrs(c)...)
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		ctx := c.UserContext()
		LoggerFromCtx(ctx).LogAttrs(ctx, accessLevel(c.Path(), status), "http request", attrs...)
		return err
	}
}

func routeAttrs(c *fiber.Ctx) []slog.Attr {
	var attrs []slog.Attr
	slug := c.Params("slug")
	if slug == "" && c.Path() == "/ws" {
		slug = c.Query("route")
	}
	if slug != "" {
		attrs = append(attrs, slog.String("route", slug))
	}
	if v := c.Query("variant"); v != "" {
		attrs = append(attrs, slog.String("variant", v))
	}
	if u := c.Query("unit"); u != "" {
		attrs = append(attrs, slog.String("unit", u))
	}
	return attrs
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
