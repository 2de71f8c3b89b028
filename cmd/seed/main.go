package main

import (
	"Foodies-Backend/cmd/config"
	"Foodies-Backend/internal/utils"
	"Foodies-Backend/internal/utils/logging"
	"Foodies-Backend/pkg/catalog"
	"context"
	"flag"
	"log"
	"time"
)

func main() {
	dataDir := flag.String("data", "./data", "directory holding the catalog fixture files")
	clearFirst := flag.Bool("clear", false, "delete catalog rows before seeding")
	flag.Parse()

	utils.LoadConfig()
	utils.InitValidator()
	logging.SetLevel(utils.GetConfigDefault("LOG_LEVEL", "info"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repos, err := config.OpenRepositories(ctx)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	service := catalog.NewCatalogService(repos.Catalog, config.NewCache(), time.Minute)
	seeder := catalog.NewSeeder(service, repos.Catalog, utils.Validate)

	if *clearFirst {
		if err := seeder.Clear(ctx); err != nil {
			log.Fatalf("failed to clear catalog: %v", err)
		}
		logging.Log.Info("catalog cleared")
	}

	report, err := seeder.Seed(ctx, *dataDir)
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	for _, collection := range []string{"categories", "areas", "ingredients", "testimonials"} {
		logging.Log.WithField("collection", collection).
			WithField("inserted", report.Inserted[collection]).
			WithField("skipped", report.Skipped[collection]).
			Info("seeded")
	}
}
