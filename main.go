package main

import (
	"log"

	"qrnglab/adapters/cryptorand"
	"qrnglab/adapters/postgres"
	"qrnglab/adapters/quantum"
	"qrnglab/app"
	"qrnglab/internal/config"
	"qrnglab/internal/errors"
	"qrnglab/internal/testkit"
	"qrnglab/ports"
	"qrnglab/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env if present; environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	source, err := buildBitSource(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bit source: %v", err)
	}

	runs, err := buildRunRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize run history: %v", err)
	}

	pipeline := app.NewPipelineService(source, runs)
	sweep := app.NewSweepService(source, runs)

	server, err := ui.NewServer(cfg, pipeline, sweep)
	if err != nil {
		log.Fatalf("Failed to initialize UI server: %v", err)
	}

	log.Printf("Starting QRNG lab on :%s (source=%s)", cfg.Server.Port, source.Name())
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildBitSource(cfg *config.Config) (ports.BitSource, error) {
	switch cfg.Source.Kind {
	case "crypto":
		return cryptorand.NewSource(), nil
	default:
		return quantum.NewSimulator()
	}
}

// buildRunRepository connects Postgres when DATABASE_URL is set,
// otherwise falls back to in-memory history
func buildRunRepository(cfg *config.Config) (ports.RunRepository, error) {
	if cfg.Database.URL == "" {
		log.Println("DATABASE_URL not set, keeping run history in memory")
		return testkit.NewInMemoryRunRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return postgres.NewRunRepository(db)
}
