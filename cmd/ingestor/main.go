package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	natsadapter "github.com/samirrijal/trailview/internal/adapters/nats"
	"github.com/samirrijal/trailview/internal/adapters/postgres"
	"github.com/samirrijal/trailview/internal/adapters/valkey"
	"github.com/samirrijal/trailview/internal/core/ports"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/pkg/config"
)

// maxDocument caps a single downloaded or local route file.
const maxDocument = 8 << 20

// Manifest lists the route documents to load.
type Manifest struct {
	Source string       `json:"source"`
	Routes []RouteEntry `json:"routes"`
}

// RouteEntry is one route document. Exactly one of Path and URL is set.
// Relative paths resolve against the manifest's directory.
type RouteEntry struct {
	Slug   string `json:"slug"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path,omitempty"`
	URL    string `json:"url,omitempty"`
	Format string `json:"format,omitempty"`
}

func main() {
	cfg, err := config.Load("trailview-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Load manifest
	manifestPath := "manifest.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	log.Printf("TrailView ingestor: %d routes from %s", len(manifest.Routes), manifest.Source)

	// Filter routes (optional CLI arg: slug list)
	slugFilter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, s := range strings.Split(os.Args[2], ",") {
			slugFilter[strings.TrimSpace(s)] = true
		}
	}

	// Cache and broker are optional. Without them stale profiles expire on their own.
	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		log.Printf("valkey unavailable, caches not invalidated: %v", err)
	} else {
		cache = c
		defer c.Close()
	}
	var publisher ports.EventPublisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		log.Printf("nats unavailable, imports not announced: %v", err)
	} else {
		publisher = p
		defer p.Close()
	}

	svc := usecases.NewRouteService(postgres.NewRouteRepo(db), cache, publisher)
	client := &http.Client{Timeout: 60 * time.Second}
	baseDir := filepath.Dir(manifestPath)

	var wg sync.WaitGroup
	var failed atomic.Int32
	sem := make(chan struct{}, 4) // max 4 concurrent imports

	for _, entry := range manifest.Routes {
		if len(slugFilter) > 0 && !slugFilter[entry.Slug] {
			continue
		}

		wg.Add(1)
		go func(e RouteEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ingestRoute(ctx, svc, client, baseDir, e); err != nil {
				failed.Add(1)
				log.Printf("ERROR [%s]: %v", e.Slug, err)
			}
		}(entry)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatalf("ingestion finished with %d failed routes", n)
	}
	log.Println("ingestion complete")
}

func ingestRoute(ctx context.Context, svc *usecases.RouteService, client *http.Client, baseDir string, e RouteEntry) error {
	data, name, err := readDocument(ctx, client, baseDir, e)
	if err != nil {
		return err
	}

	route, err := svc.Import(ctx, e.Slug, e.Name, usecases.DetectFormat(e.Format, name, data), data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	log.Printf("[%s] %q stored, %d points", route.Slug, route.Name, len(route.Points))
	return nil
}

// readDocument returns the document bytes and the name its format can be
// guessed from.
func readDocument(ctx context.Context, client *http.Client, baseDir string, e RouteEntry) ([]byte, string, error) {
	switch {
	case e.Path != "" && e.URL != "":
		return nil, "", fmt.Errorf("both path and url set")
	case e.Path != "":
		p := e.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, "", fmt.Errorf("open: %w", err)
		}
		defer f.Close()
		data, err := readLimited(f)
		return data, p, err
	case e.URL != "":
		log.Printf("[%s] downloading %s", e.Slug, e.URL)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("download: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, e.URL)
		}
		data, err := readLimited(resp.Body)
		return data, e.URL, err
	default:
		return nil, "", fmt.Errorf("path or url is required")
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocument+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxDocument {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocument)
	}
	return data, nil
}
