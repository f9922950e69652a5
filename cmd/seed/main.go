package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/autovista-ai/autovista-backend/internal/seed"
	"github.com/autovista-ai/autovista-backend/pkg/config"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	vehicles := flag.Int("vehicles", 100, "number of vehicles to generate")
	sales := flag.Int("sales", 10000, "number of sales transactions to generate")
	months := flag.Int("months", 24, "sales history window in months")
	seedValue := flag.Int64("seed", 42, "RNG seed for reproducible datasets")
	reset := flag.Bool("reset", false, "delete existing rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "migrations", err)
	}

	gen := seed.NewGenerator(seed.Options{
		Seed:         *seedValue,
		VehicleCount: *vehicles,
		SalesCount:   *sales,
		SalesMonths:  *months,
	})
	loader := seed.NewLoader(dbClient, gen, logg)

	if *reset {
		if err := loader.Reset(ctx); err != nil {
			logg.Error(ctx, "reset failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "existing data cleared")
	}

	result, err := loader.Load(ctx)
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d vehicles, %d inventory records, %d sales\n",
		result.Vehicles, result.Inventory, result.Sales)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
