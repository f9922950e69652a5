package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/autovista-ai/autovista-backend/api/routes"
	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/internal/catalog"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/internal/insights"
	"github.com/autovista-ai/autovista-backend/internal/nlquery"
	"github.com/autovista-ai/autovista-backend/internal/pipeline"
	"github.com/autovista-ai/autovista-backend/internal/rag"
	"github.com/autovista-ai/autovista-backend/internal/reports"
	"github.com/autovista-ai/autovista-backend/pkg/config"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/env"
	"github.com/autovista-ai/autovista-backend/pkg/llm"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/metrics"
	"github.com/autovista-ai/autovista-backend/pkg/migrate"
	"github.com/autovista-ai/autovista-backend/pkg/redis"
	"github.com/autovista-ai/autovista-backend/pkg/retryx"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var cache *redis.Client
	if cfg.Redis.Enabled() {
		cache, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	retryPolicy := retryx.NewPolicy(cfg.Retry)
	llmClient, err := llm.NewGateway(cfg.OpenAI, retryPolicy, metrics.NewLLMMetrics(registry), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create llm gateway", err)
		os.Exit(1)
	}

	extractor := extract.New(dbClient.DB(), logg)
	salesAnalytics := analytics.NewSalesAnalytics(extractor, logg)
	inventoryAnalytics := analytics.NewInventoryAnalytics(extractor, cfg.Analytics.OverstockMultiplier, logg)
	kpiCalculator := analytics.NewKPICalculator(salesAnalytics, inventoryAnalytics, cache, cfg.Redis.KPICacheTTL, logg)
	trendAnalyzer := analytics.NewTrendAnalyzer(extractor, cfg.Analytics, logg)

	insightRepo := insights.NewRepository(dbClient)
	insightService := insights.NewService(llmClient, salesAnalytics, inventoryAnalytics, trendAnalyzer, insightRepo, logg)

	catalogRepo := catalog.NewRepository(dbClient)
	reportService := reports.NewService(llmClient, salesAnalytics, inventoryAnalytics, kpiCalculator, catalogRepo, extractor, logg)
	nlService := nlquery.NewService(llmClient, dbClient, logg)
	ragService := rag.NewService(llmClient, rag.NewKeywordRetriever(insightRepo), logg)

	snapshotRepo := pipeline.NewSnapshotRepository(dbClient, retryPolicy)
	pipelineManager := pipeline.NewManager(extractor, snapshotRepo, metrics.NewPipelineMetrics(registry), logg)

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Registry:  registry,
			Sales:     salesAnalytics,
			Inventory: inventoryAnalytics,
			KPIs:      kpiCalculator,
			Trends:    trendAnalyzer,
			Insights:  insightService,
			InsightDB: insightRepo,
			Reports:   reportService,
			NLQuery:   nlService,
			RAG:       ragService,
			Catalog:   catalogRepo,
			Extractor: extractor,
			Pipeline:  pipelineManager,
			Snapshots: snapshotRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
