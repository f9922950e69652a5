package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/internal/pipeline"
	"github.com/autovista-ai/autovista-backend/pkg/config"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/metrics"
	"github.com/autovista-ai/autovista-backend/pkg/migrate"
	"github.com/autovista-ai/autovista-backend/pkg/retryx"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "pipeline"})

	_ = godotenv.Load()

	mode := flag.String("mode", "full", "pipeline to run: full|sales|inventory")
	daysBack := flag.Int("days-back", 0, "lookback window in days for the sales pipeline")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "pipeline",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "migrations", err)
	}

	lookback := cfg.Pipeline.DefaultLookbackDays
	if *daysBack > 0 {
		lookback = *daysBack
	}

	extractor := extract.New(dbClient.DB(), logg)
	snapshots := pipeline.NewSnapshotRepository(dbClient, retryx.NewPolicy(cfg.Retry))
	manager := pipeline.NewManager(extractor, snapshots, metrics.NewPipelineMetrics(prometheus.NewRegistry()), logg)

	ctx = logg.WithFields(ctx, map[string]any{"mode": *mode, "days_back": lookback})
	logg.Info(ctx, "pipeline run starting")

	var result any
	switch *mode {
	case "full":
		result, err = manager.RunFull(ctx, lookback)
	case "sales":
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -lookback)
		result, err = manager.RunSales(ctx, start, end)
	case "inventory":
		result, err = manager.RunInventory(ctx)
	default:
		fmt.Fprintln(os.Stderr, "unknown -mode value:", *mode)
		os.Exit(1)
	}
	if err != nil {
		logg.Error(ctx, "pipeline run failed", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
