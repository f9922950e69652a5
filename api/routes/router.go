package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autovista-ai/autovista-backend/api/controllers"
	"github.com/autovista-ai/autovista-backend/api/middleware"
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
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Registry  *prometheus.Registry
	Sales     *analytics.SalesAnalytics
	Inventory *analytics.InventoryAnalytics
	KPIs      *analytics.KPICalculator
	Trends    *analytics.TrendAnalyzer
	Insights  *insights.Service
	InsightDB *insights.Repository
	Reports   *reports.Service
	NLQuery   *nlquery.Service
	RAG       *rag.Service
	Catalog   *catalog.Repository
	Extractor *extract.Extractor
	Pipeline  *pipeline.Manager
	Snapshots *pipeline.SnapshotRepository
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Get("/sales/summary", controllers.SalesSummary(deps.Sales, logg))
		r.Get("/sales/trends", controllers.SalesTrends(deps.Sales, logg))
		r.Get("/sales/growth", controllers.SalesGrowth(deps.Sales, logg))
		r.Get("/sales/regional", controllers.SalesRegional(deps.Sales, logg))
		r.Get("/sales/top-vehicles", controllers.SalesTopVehicles(deps.Sales, logg))
		r.Get("/sales/categories", controllers.SalesCategories(deps.Sales, logg))
		r.Get("/sales/segments", controllers.SalesSegments(deps.Sales, logg))

		r.Get("/inventory/summary", controllers.InventorySummary(deps.Inventory, logg))
		r.Get("/inventory/status", controllers.InventoryStatus(deps.Inventory, logg))
		r.Get("/inventory/by-status", controllers.InventoryByStatus(deps.Inventory, logg))
		r.Get("/inventory/low-stock", controllers.InventoryLowStock(deps.Inventory, logg))
		r.Get("/inventory/turnover", controllers.InventoryTurnover(deps.Inventory, logg))

		r.Get("/kpis", controllers.KPIs(deps.KPIs, logg))
		r.Get("/kpis/comparison", controllers.KPIComparison(deps.KPIs, logg))

		r.Get("/trends/anomalies", controllers.TrendAnomalies(deps.Trends, logg))
		r.Get("/trends/moving-average", controllers.TrendMovingAverage(deps.Trends, logg))
		r.Get("/trends/forecast", controllers.TrendForecast(deps.Trends, logg))
		r.Get("/trends/seasonality", controllers.TrendSeasonality(deps.Trends, logg))
	})

	r.Route("/api/v1/insights", func(r chi.Router) {
		r.Post("/generate", controllers.GenerateInsights(deps.Insights, logg))
		r.Get("/anomalies", controllers.InsightAnomalies(deps.Insights, logg))
		r.Get("/trends", controllers.InsightTrends(deps.Insights, logg))
		r.Get("/history", controllers.InsightHistory(deps.InsightDB, logg))
	})

	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Post("/generate", controllers.GenerateReport(deps.Reports, logg))
		r.Post("/generate/markdown", controllers.GenerateReportMarkdown(deps.Reports, logg))
		r.Post("/generate/html", controllers.GenerateReportHTML(deps.Reports, logg))
	})

	r.Route("/api/v1/query", func(r chi.Router) {
		r.Post("/", controllers.NaturalLanguageQuery(deps.NLQuery, logg))
		r.Post("/rag", controllers.RAGQuery(deps.RAG, logg))
	})

	r.Route("/api/v1/data", func(r chi.Router) {
		r.Get("/vehicles", controllers.ListVehicles(deps.Catalog, logg))
		r.Get("/vehicles/{vehicleID}", controllers.GetVehicle(deps.Catalog, logg))
		r.Get("/sales", controllers.ListSales(deps.Extractor, logg))
		r.Get("/inventory", controllers.ListInventory(deps.Extractor, logg))
	})

	r.Route("/api/v1/pipeline", func(r chi.Router) {
		r.Post("/run", controllers.RunFullPipeline(deps.Pipeline, logg))
		r.Post("/run/sales", controllers.RunSalesPipeline(deps.Pipeline, logg))
		r.Post("/run/inventory", controllers.RunInventoryPipeline(deps.Pipeline, logg))
		r.Get("/snapshots/latest", controllers.LatestSnapshot(deps.Snapshots, logg))
	})

	return r
}
