package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/trailview/internal/adapters/nats"
	"github.com/samirrijal/trailview/internal/adapters/postgres"
	"github.com/samirrijal/trailview/internal/adapters/valkey"
	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/pkg/config"
	"github.com/samirrijal/trailview/internal/pkg/logging"
)

// The recorder consumes the JetStream streams the API publishes to. It
// stores camera events and precomputes profiles of freshly imported routes.
func main() {
	cfg, err := config.Load("trailview-recorder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, warming disabled", "error", err)
	} else {
		cache = c
		defer c.Close()
	}

	// Streams are created by the publisher side; make sure they exist first.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	pub.Close()

	var sub ports.EventSubscriber
	s, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer s.Close()
	sub = s

	cameraRepo := postgres.NewCameraEventRepo(db)
	if err := sub.SubscribeCameraEvents(ctx, cameraRepo.OnCameraChanged); err != nil {
		log.Fatalf("subscribe camera events: %v", err)
	}

	if cache != nil {
		profiles := usecases.NewProfileService(postgres.NewRouteRepo(db), cache, cfg.Profile.CacheTTL)
		if err := sub.SubscribeRouteImported(ctx, func(ctx context.Context, slug string) error {
			return warm(ctx, profiles, slug)
		}); err != nil {
			log.Fatalf("subscribe route imports: %v", err)
		}
	}

	slog.Info("recorder started", "nats", cfg.NATS.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("recorder stopping", "signal", sig.String())
}

// warm fills the profile and summary caches. A route deleted before the
// message arrived is not an error.
func warm(ctx context.Context, profiles *usecases.ProfileService, slug string) error {
	for _, unit := range []profile.Unit{profile.UnitKilometers, profile.UnitMeters} {
		if _, err := profiles.Profile(ctx, slug, unit); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				slog.InfoContext(ctx, "route gone before warm-up", "slug", slug)
				return nil
			}
			return err
		}
	}
	if _, err := profiles.Summary(ctx, slug); err != nil {
		return err
	}
	slog.DebugContext(ctx, "profile warmed", "slug", slug)
	return nil
}
