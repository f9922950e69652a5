package controllers

import (
	"net/http"
	"time"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// SalesSummary serves the headline sales numbers for a period.
func SalesSummary(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SalesTrends serves sales bucketed by day, week, or month.
func SalesTrends(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, err := parsePeriodParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trends, err := svc.Trends(r.Context(), start, end, period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trends)
	}
}

// SalesGrowth serves period-over-period revenue change.
func SalesGrowth(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, err := parsePeriodParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		growth, err := svc.Growth(r.Context(), start, end, period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, growth)
	}
}

// SalesRegional serves per-region sales performance.
func SalesRegional(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		regions, err := svc.RegionalPerformance(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, regions)
	}
}

// SalesTopVehicles serves the top N sellers by revenue.
func SalesTopVehicles(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		n, err := validators.ParseQueryInt(r, "n", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicles, err := svc.TopSellingVehicles(r.Context(), n, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

// SalesCategories serves the per-category sales breakdown.
func SalesCategories(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.CategoryBreakdown(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// SalesSegments serves the per-customer-segment sales analysis.
func SalesSegments(svc *analytics.SalesAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		segments, err := svc.SegmentAnalysis(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, segments)
	}
}

// InventorySummary serves the overall stock position.
func InventorySummary(svc *analytics.InventoryAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// InventoryStatus serves the summary plus regional and category breakdowns.
func InventoryStatus(svc *analytics.InventoryAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summary, err := svc.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		byRegion, err := svc.ByRegion(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		byCategory, err := svc.ByCategory(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"summary":     summary,
			"by_region":   byRegion,
			"by_category": byCategory,
		})
	}
}

// InventoryByStatus serves the stock breakdown per status.
func InventoryByStatus(svc *analytics.InventoryAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buckets, err := svc.ByStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buckets)
	}
}

// InventoryLowStock serves vehicles at or below their reorder point.
func InventoryLowStock(svc *analytics.InventoryAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := svc.LowStockAlerts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}

// InventoryTurnover serves the summary, warehouse utilization, and per-vehicle
// turnover for the requested window.
func InventoryTurnover(svc *analytics.InventoryAnalytics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		utilization, err := svc.WarehouseUtilizationReport(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		byVehicle, err := svc.VehicleTurnover(ctx, start, end)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"summary":               summary,
			"warehouse_utilization": utilization,
			"by_vehicle":            byVehicle,
		})
	}
}

// KPIs serves the full KPI set for a period.
func KPIs(svc *analytics.KPICalculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kpis, err := svc.CalculateAll(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, kpis)
	}
}

// KPIComparison serves KPIs with period-over-period changes.
func KPIComparison(svc *analytics.KPICalculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comparison, err := svc.PeriodComparison(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, comparison)
	}
}

// TrendAnomalies serves statistical outliers in daily sales.
func TrendAnomalies(svc *analytics.TrendAnalyzer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		anomalies, err := svc.DetectAnomalies(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, anomalies)
	}
}

// TrendMovingAverage serves the smoothed daily revenue series.
func TrendMovingAverage(svc *analytics.TrendAnalyzer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.MovingAverage(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

// TrendForecast serves the naive revenue forecast.
func TrendForecast(svc *analytics.TrendAnalyzer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := svc.Forecast(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

// TrendSeasonality serves monthly and weekday revenue patterns.
func TrendSeasonality(svc *analytics.TrendAnalyzer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patterns, err := svc.Seasonality(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, patterns)
	}
}

func dateRange(r *http.Request) (start, end time.Time, err error) {
	start, err = validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return
	}
	end, err = validators.ParseQueryDate(r, "end_date")
	return
}

// parsePeriodParam accepts both the long names and the single-letter
// shorthand clients already use.
func parsePeriodParam(r *http.Request) (enums.Period, error) {
	raw := validators.QueryString(r, "period")
	switch raw {
	case "", "D":
		return enums.PeriodDaily, nil
	case "W":
		return enums.PeriodWeekly, nil
	case "M":
		return enums.PeriodMonthly, nil
	}
	period, err := enums.ParsePeriod(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period")
	}
	return period, nil
}
