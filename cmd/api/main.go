package main

import (
	"log"

	"qrnglab/adapters/api"
	"qrnglab/adapters/cryptorand"
	"qrnglab/adapters/postgres"
	"qrnglab/adapters/quantum"
	"qrnglab/app"
	"qrnglab/internal/config"
	"qrnglab/internal/testkit"
	"qrnglab/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var source ports.BitSource
	if cfg.Source.Kind == "crypto" {
		source = cryptorand.NewSource()
	} else {
		source, err = quantum.NewSimulator()
		if err != nil {
			log.Fatalf("Failed to initialize quantum simulator: %v", err)
		}
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		runs, err = postgres.NewRunRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize run history: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, keeping run history in memory")
		runs = testkit.NewInMemoryRunRepository()
	}

	pipeline := app.NewPipelineService(source, runs)
	sweep := app.NewSweepService(source, runs)

	service := api.NewService(pipeline, sweep)
	if err := service.Start(cfg.Server.Port); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
