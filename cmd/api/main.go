package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/trailview/internal/adapters/http"
	natsadapter "github.com/samirrijal/trailview/internal/adapters/nats"
	"github.com/samirrijal/trailview/internal/adapters/postgres"
	"github.com/samirrijal/trailview/internal/adapters/valkey"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/pkg/config"
	"github.com/samirrijal/trailview/internal/pkg/logging"
	"github.com/samirrijal/trailview/internal/pkg/metrics"
	"github.com/samirrijal/trailview/internal/pkg/telemetry"
	"github.com/samirrijal/trailview/internal/workflows"
)

func main() {
	cfg, err := config.Load("trailview-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	// Raw NATS connection for the WebSocket camera relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Temporal, for remote imports
	var imports ports.ImportStarter
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, remote imports disabled", "error", err)
		} else {
			defer tc.Close()
			imports = &workflows.Starter{Client: tc, TaskQueue: cfg.Temporal.TaskQueue}
		}
	}

	// Repos
	routeRepo := postgres.NewRouteRepo(db)
	cameraRepo := postgres.NewCameraEventRepo(db)

	// Use cases
	routeSvc := usecases.NewRouteService(routeRepo, cacheSvc, publisher)
	profileSvc := usecases.NewProfileService(routeRepo, cacheSvc, cfg.Profile.CacheTTL)
	viewSvc := usecases.NewViewService(routeSvc, profileSvc)
	cameraSvc := usecases.NewCameraService(publisher)

	// Camera observers: always log, persist when asked to
	defer cameraSvc.Subscribe(usecases.LogObserver{Logger: slog.Default().With("component", "camera")})()
	if cfg.Profile.PersistCamera {
		defer cameraSvc.Subscribe(cameraRepo)()
	}

	deps := &http.Dependencies{
		Routes:         routeSvc,
		Profiles:       profileSvc,
		Views:          viewSvc,
		Camera:         cameraSvc,
		Sessions:       usecases.NewSessionRegistry(),
		Imports:        imports,
		CameraHistory:  cameraRepo,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
		DefaultVariant: cfg.Profile.DefaultVariant,
		MapboxToken:    cfg.Profile.MapboxToken,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		AppName:      "TrailView API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats copies pgxpool statistics into the Prometheus gauges.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		case <-ctx.Done():
			return
		}
	}
}
