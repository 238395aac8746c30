package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/trailview/internal/pkg/config"
)

var upFiles = []string{
	"migrations/001_routes.sql",
	"migrations/002_camera_events.sql",
}

// downStatements run in reverse order of upFiles.
var downStatements = []string{
	"DROP TABLE IF EXISTS camera_events",
	"DROP TABLE IF EXISTS routes",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("trailview-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, pool)
	case "down":
		rollback(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) {
	for _, f := range upFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

func rollback(ctx context.Context, pool *pgxpool.Pool) {
	for _, stmt := range downStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("exec %q: %v", stmt, err)
		}
		fmt.Printf("OK  %s\n", stmt)
	}

	log.Println("all migrations rolled back")
}
