package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/trailview/internal/adapters/postgres"
	"github.com/samirrijal/trailview/internal/adapters/valkey"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes   *usecases.RouteService
	Profiles *usecases.ProfileService
	Views    *usecases.ViewService
	Camera   *usecases.CameraService
	Sessions *usecases.SessionRegistry

	// Optional collaborators. Handlers that need a nil one answer 503.
	Imports       ports.ImportStarter
	CameraHistory ports.CameraHistory
	NATS          *nats.Conn
	DB            *postgres.DB
	Cache         *valkey.Cache

	DefaultVariant string
	MapboxToken    string
	// OpenAPIPath defaults to DefaultOpenAPIPath.
	OpenAPIPath string
}
