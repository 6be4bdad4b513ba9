package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/yusefelshater/TransCalc/internal/adapters/fallback"
	"github.com/yusefelshater/TransCalc/internal/adapters/postgres"
	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/pkg/config"
)

// schema creates the managed fallback facility catalog.
const schema = `
CREATE TABLE IF NOT EXISTS fallback_facilities (
	id       SERIAL PRIMARY KEY,
	category TEXT NOT NULL,
	name     TEXT NOT NULL,
	lat      DOUBLE PRECISION NOT NULL,
	lon      DOUBLE PRECISION NOT NULL,
	UNIQUE (category, name)
);
CREATE INDEX IF NOT EXISTS idx_fallback_facilities_category
	ON fallback_facilities (category);
`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed [file]>")
	}

	cfg, err := config.Load("transcalc-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("database.host is not configured")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if _, err := db.Pool.Exec(ctx, schema); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
		log.Println("schema applied")
	case "seed":
		file := cfg.Planner.FallbackFile
		if len(os.Args) > 2 {
			file = os.Args[2]
		}
		seed(ctx, db, file)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// seed loads the JSON fallback dataset and upserts it into the catalog.
func seed(ctx context.Context, db *postgres.DB, file string) {
	fb, err := fallback.New(file).Facilities(ctx)
	if err != nil {
		log.Fatalf("load %s: %v", file, err)
	}

	repo := postgres.NewFacilityRepo(db)
	total := 0
	for category, items := range map[string][]domain.Facility{
		"asphalt_plants":    fb.AsphaltPlants,
		"waste_sites":       fb.WasteSites,
		"rubber_recycling":  fb.RubberRecycling,
		"rubber_production": fb.RubberProduction,
	} {
		for _, f := range items {
			if err := repo.Upsert(ctx, category, f); err != nil {
				log.Fatalf("upsert %s %q: %v", category, f.Name, err)
			}
			total++
		}
		fmt.Printf("OK  %s: %d entries\n", category, len(items))
	}

	log.Printf("seeded %d fallback facilities from %s", total, file)
}
