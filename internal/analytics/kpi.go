package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/redis"
)

// KPISet is the full indicator document for one period.
type KPISet struct {
	TotalRevenue           float64 `json:"total_revenue"`
	AvgDailyRevenue        float64 `json:"avg_daily_revenue"`
	AvgTransactionValue    float64 `json:"avg_transaction_value"`
	TotalUnitsSold         int     `json:"total_units_sold"`
	TotalTransactions      int     `json:"total_transactions"`
	AvgUnitsPerTransaction float64 `json:"avg_units_per_transaction"`
	AvgDiscountPct         float64 `json:"avg_discount_pct"`
	TotalInventoryUnits    int     `json:"total_inventory_units"`
	TotalInventoryValue    float64 `json:"total_inventory_value"`
	InventoryTurnoverRate  float64 `json:"inventory_turnover_rate"`
	LowStockItems          int     `json:"low_stock_items"`
	OutOfStockItems        int     `json:"out_of_stock_items"`
	StockAvailabilityRate  float64 `json:"stock_availability_rate"`
	PeriodStart            string  `json:"period_start"`
	PeriodEnd              string  `json:"period_end"`
	PeriodDays             int     `json:"period_days"`
}

// KPIComparison contrasts the trailing window with the one before it.
type KPIComparison struct {
	CurrentPeriod  KPISet     `json:"current_period"`
	PreviousPeriod KPISet     `json:"previous_period"`
	Changes        KPIChanges `json:"changes"`
}

// KPIChanges holds the percentage deltas of a comparison.
type KPIChanges struct {
	RevenueChangePct             float64 `json:"revenue_change_pct"`
	UnitsChangePct               float64 `json:"units_change_pct"`
	AvgTransactionValueChangePct float64 `json:"avg_transaction_value_change_pct"`
}

// KPICalculator combines sales and inventory views into indicators. Results
// are cached in Redis when a client is configured; every path works without
// the cache.
type KPICalculator struct {
	sales     *SalesAnalytics
	inventory *InventoryAnalytics
	cache     *redis.Client
	cacheTTL  time.Duration
	logg      *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewKPICalculator builds the calculator. cache may be nil.
func NewKPICalculator(sales *SalesAnalytics, inventory *InventoryAnalytics, cache *redis.Client, cacheTTL time.Duration, logg *logger.Logger) *KPICalculator {
	return &KPICalculator{
		sales:     sales,
		inventory: inventory,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logg:      logg,
		now:       time.Now,
	}
}

// CalculateAll computes the indicator set for the period. Zero bounds default
// to the trailing 30 days ending today.
func (k *KPICalculator) CalculateAll(ctx context.Context, startDate, endDate time.Time) (KPISet, error) {
	if endDate.IsZero() {
		endDate = k.today()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -30)
	}

	startKey := startDate.Format("2006-01-02")
	endKey := endDate.Format("2006-01-02")

	if k.cache != nil {
		var cached KPISet
		err := k.cache.GetJSON(ctx, k.cache.KPIKey(startKey, endKey), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			k.logg.Warn(ctx, "kpi cache read failed")
		}
	}

	salesSummary, err := k.sales.Summary(ctx, startDate, endDate)
	if err != nil {
		return KPISet{}, err
	}
	inventorySummary, err := k.inventory.Summary(ctx)
	if err != nil {
		return KPISet{}, err
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	kpis := KPISet{
		TotalRevenue:        salesSummary.TotalRevenue,
		AvgTransactionValue: salesSummary.AvgTransactionValue,
		TotalUnitsSold:      salesSummary.TotalUnits,
		TotalTransactions:   salesSummary.TotalTransactions,
		AvgDiscountPct:      salesSummary.AvgDiscount,
		TotalInventoryUnits: inventorySummary.TotalUnits,
		TotalInventoryValue: inventorySummary.TotalValue,
		LowStockItems:       inventorySummary.LowStockCount,
		OutOfStockItems:     inventorySummary.OutOfStockCount,
		PeriodStart:         startKey,
		PeriodEnd:           endKey,
		PeriodDays:          days,
	}
	if days > 0 {
		kpis.AvgDailyRevenue = salesSummary.TotalRevenue / float64(days)
	}
	if salesSummary.TotalTransactions > 0 {
		kpis.AvgUnitsPerTransaction = float64(salesSummary.TotalUnits) / float64(salesSummary.TotalTransactions)
	}
	if inventorySummary.TotalUnits > 0 {
		kpis.InventoryTurnoverRate = float64(salesSummary.TotalUnits) / float64(inventorySummary.TotalUnits)
	}
	tracked := inventorySummary.ActiveCount + inventorySummary.LowStockCount + inventorySummary.OutOfStockCount
	if tracked > 0 {
		inStock := inventorySummary.ActiveCount + inventorySummary.LowStockCount
		kpis.StockAvailabilityRate = float64(inStock) / float64(tracked) * 100
	}

	if k.cache != nil {
		if err := k.cache.SetJSON(ctx, k.cache.KPIKey(startKey, endKey), kpis, k.cacheTTL); err != nil {
			k.logg.Warn(ctx, "kpi cache write failed")
		}
	}
	return kpis, nil
}

// PeriodComparison contrasts the trailing currentDays window with the window
// immediately before it.
func (k *KPICalculator) PeriodComparison(ctx context.Context, currentDays int) (KPIComparison, error) {
	if currentDays <= 0 {
		currentDays = 30
	}
	endDate := k.today()
	currentStart := endDate.AddDate(0, 0, -(currentDays - 1))
	previousEnd := currentStart.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(currentDays - 1))

	current, err := k.CalculateAll(ctx, currentStart, endDate)
	if err != nil {
		return KPIComparison{}, err
	}
	previous, err := k.CalculateAll(ctx, previousStart, previousEnd)
	if err != nil {
		return KPIComparison{}, err
	}

	comparison := KPIComparison{CurrentPeriod: current, PreviousPeriod: previous}
	if previous.TotalRevenue > 0 {
		comparison.Changes.RevenueChangePct = (current.TotalRevenue - previous.TotalRevenue) / previous.TotalRevenue * 100
	}
	if previous.TotalUnitsSold > 0 {
		comparison.Changes.UnitsChangePct = float64(current.TotalUnitsSold-previous.TotalUnitsSold) / float64(previous.TotalUnitsSold) * 100
	}
	if previous.AvgTransactionValue > 0 {
		comparison.Changes.AvgTransactionValueChangePct = (current.AvgTransactionValue - previous.AvgTransactionValue) / previous.AvgTransactionValue * 100
	}
	return comparison, nil
}

func (k *KPICalculator) today() time.Time {
	now := k.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
