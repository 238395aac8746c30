package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/core/variants"
	"github.com/samirrijal/trailview/internal/pkg/geojson"
	"github.com/samirrijal/trailview/internal/pkg/gpx"
)

// maxRouteDocument caps uploaded GeoJSON/GPX bodies.
const maxRouteDocument = 8 << 20

// ListRoutesHandler returns stored routes without their points.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes, err := deps.Routes.List(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		page, pg := paginate(routes, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CreateRouteHandler stores the GeoJSON or GPX document in the request body.
// The slug comes from ?slug=, the format from ?format= or is sniffed.
func CreateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Query("slug")
		if slug == "" {
			return errBadRequest(c, "slug query parameter is required")
		}
		body := c.Body()
		if len(body) == 0 {
			return errBadRequest(c, "request body must be a GeoJSON or GPX document")
		}
		if len(body) > maxRouteDocument {
			return newError(c, 413, "payload_too_large", "route document exceeds 8 MiB")
		}

		format := usecases.DetectFormat(c.Query("format"), c.Query("filename"), body)
		if format == "" && strings.Contains(c.Get(fiber.HeaderContentType), "gpx") {
			format = usecases.FormatGPX
		}

		route, err := deps.Routes.Import(c.UserContext(), slug, c.Query("name"), format, body)
		if err != nil {
			return errFromService(c, err)
		}

		c.Location("/v1/routes/" + route.Slug)
		return c.Status(201).JSON(routeInfo(route))
	}
}

// GetRouteHandler returns one route including its points.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(route)
	}
}

// DeleteRouteHandler removes a route.
func DeleteRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Routes.Delete(c.UserContext(), c.Params("slug")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(204)
	}
}

// RouteGeoJSONHandler serves the route as the FeatureCollection the map
// draws its line from.
func RouteGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromService(c, err)
		}
		data, err := geojson.Encode(route.Points, route.Name)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

// RouteGPXHandler serves the route as a GPX 1.1 track.
func RouteGPXHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromService(c, err)
		}
		data, err := gpx.Encode(route.Points, route.Name)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+route.Slug+`.gpx"`)
		return c.Send(data)
	}
}

// ProfileResponse is the elevation chart data for one route.
type ProfileResponse struct {
	Route   string                  `json:"route"`
	Unit    profile.Unit            `json:"unit"`
	Samples domain.ElevationProfile `json:"samples"`
}

// ProfileHandler returns the elevation profile, distances in ?unit=km|m.
func ProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := profile.ParseUnit(c.Query("unit"))
		if err != nil {
			return errFromService(c, err)
		}
		slug := c.Params("slug")
		p, err := deps.Profiles.Profile(c.UserContext(), slug, unit)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(ProfileResponse{Route: slug, Unit: unit, Samples: p})
	}
}

// SummaryHandler returns aggregate figures for a route.
func SummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := deps.Profiles.Summary(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(sum)
	}
}

// ViewHandler returns everything a page variant needs to render a route.
func ViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Views.View(c.UserContext(), c.Params("slug"), c.Query("variant", deps.DefaultVariant))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(view)
	}
}

// cameraReport is the body of POST /v1/routes/:slug/camera.
type cameraReport struct {
	SessionID string             `json:"session_id"`
	State     domain.CameraState `json:"state"`
}

// ReportCameraHandler accepts a camera state from a map that is not
// connected over the WebSocket.
func ReportCameraHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body cameraReport
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return errBadRequest(c, "invalid camera JSON")
		}
		event := &domain.CameraEvent{
			SessionID: body.SessionID,
			RouteSlug: c.Params("slug"),
			State:     body.State,
		}
		if err := deps.Camera.Report(c.UserContext(), event); err != nil {
			return errFromService(c, err)
		}
		return c.Status(202).JSON(event)
	}
}

// LatestCameraHandler returns the last persisted camera for a route.
func LatestCameraHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.CameraHistory == nil {
			return errUnavailable(c, "camera history is not enabled")
		}
		event, err := deps.CameraHistory.Latest(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromService(c, err)
		}
		c.Set("Cache-Control", "no-cache")
		return c.JSON(event)
	}
}

// ListVariantsHandler returns every page variant.
func ListVariantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(variants.List())
	}
}

// GetVariantHandler returns one page variant.
func GetVariantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := variants.Lookup(c.Params("name"))
		if err != nil {
			return errNotFound(c, err.Error())
		}
		return c.JSON(v)
	}
}

// StartImportHandler schedules a route import from a remote URL.
func StartImportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Imports == nil {
			return errUnavailable(c, "remote imports are not enabled")
		}
		var req domain.ImportRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errBadRequest(c, "invalid import JSON")
		}
		if req.Slug == "" || req.URL == "" {
			return errBadRequest(c, "slug and url are required")
		}
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			return errBadRequest(c, "url must be http or https")
		}

		id, err := deps.Imports.StartImport(c.UserContext(), req)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(202).JSON(fiber.Map{
			"workflow_id": id,
			"slug":        req.Slug,
			"accepted_at": time.Now().UTC(),
		})
	}
}

// routeSummary is a route without its point list.
type routeSummary struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func routeInfo(r *domain.Route) routeSummary {
	return routeSummary{
		ID:        r.ID,
		Slug:      r.Slug,
		Name:      r.Name,
		Source:    r.Source,
		Points:    len(r.Points),
		CreatedAt: r.CreatedAt,
	}
}
