package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/trailview/internal/adapters/nats"
	"github.com/samirrijal/trailview/internal/adapters/postgres"
	"github.com/samirrijal/trailview/internal/adapters/valkey"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/pkg/config"
	"github.com/samirrijal/trailview/internal/pkg/logging"
	"github.com/samirrijal/trailview/internal/workflows"
)

func main() {
	cfg, err := config.Load("trailview-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		cache = c
		defer c.Close()
	}

	var publisher ports.EventPublisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = p
		defer p.Close()
	}

	routeRepo := postgres.NewRouteRepo(db)
	routeSvc := usecases.NewRouteService(routeRepo, cache, publisher)
	profileSvc := usecases.NewProfileService(routeRepo, cache, cfg.Profile.CacheTTL)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slogAdapter{slog.Default().With("component", "temporal")},
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: 8,
	})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.RouteImportWorkflow)
	w.RegisterActivity(&workflows.RouteImportActivities{
		Routes:   routeSvc,
		Profiles: profileSvc,
		HTTP:     &http.Client{Timeout: 20 * time.Second},
	})

	slog.Info("import worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// slogAdapter routes the Temporal SDK's key/value logger into slog.
type slogAdapter struct{ l *slog.Logger }

func (a slogAdapter) Debug(msg string, keyvals ...interface{}) { a.l.Debug(msg, keyvals...) }
func (a slogAdapter) Info(msg string, keyvals ...interface{})  { a.l.Info(msg, keyvals...) }
func (a slogAdapter) Warn(msg string, keyvals ...interface{})  { a.l.Warn(msg, keyvals...) }
func (a slogAdapter) Error(msg string, keyvals ...interface{}) { a.l.Error(msg, keyvals...) }
