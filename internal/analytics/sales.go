package analytics

import (
	"context"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/aggregate"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// SalesSummary is the headline view of a sales period.
type SalesSummary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalUnits          int     `json:"total_units"`
	TotalTransactions   int     `json:"total_transactions"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	AvgDiscount         float64 `json:"avg_discount"`
	PeriodStart         string  `json:"period_start,omitempty"`
	PeriodEnd           string  `json:"period_end,omitempty"`
}

// PeriodComparison contrasts two sales periods.
type PeriodComparison struct {
	CurrentPeriod    SalesSummary `json:"current_period"`
	PreviousPeriod   SalesSummary `json:"previous_period"`
	RevenueChange    float64      `json:"revenue_change"`
	RevenueChangePct float64      `json:"revenue_change_pct"`
	UnitsChange      int          `json:"units_change"`
	UnitsChangePct   float64      `json:"units_change_pct"`
}

// SalesAnalytics computes sales views over extracted rows.
type SalesAnalytics struct {
	source DataSource
	logg   *logger.Logger
}

// NewSalesAnalytics builds the calculator.
func NewSalesAnalytics(source DataSource, logg *logger.Logger) *SalesAnalytics {
	return &SalesAnalytics{source: source, logg: logg}
}

// Summary computes the headline numbers for the period. Zero time bounds mean
// unbounded; an empty period yields a zero summary, not an error.
func (s *SalesAnalytics) Summary(ctx context.Context, startDate, endDate time.Time) (SalesSummary, error) {
	rows, err := s.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return SalesSummary{}, err
	}

	summary := SalesSummary{}
	if !startDate.IsZero() {
		summary.PeriodStart = startDate.Format("2006-01-02")
	}
	if !endDate.IsZero() {
		summary.PeriodEnd = endDate.Format("2006-01-02")
	}
	if len(rows) == 0 {
		return summary, nil
	}

	var discountSum float64
	for _, row := range rows {
		summary.TotalRevenue += row.TotalAmount
		summary.TotalUnits += row.Quantity
		discountSum += row.DiscountApplied
	}
	summary.TotalTransactions = len(rows)
	summary.AvgTransactionValue = summary.TotalRevenue / float64(len(rows))
	summary.AvgDiscount = discountSum / float64(len(rows))
	return summary, nil
}

// Trends returns sales bucketed by the requested granularity.
func (s *SalesAnalytics) Trends(ctx context.Context, startDate, endDate time.Time, period enums.Period) ([]aggregate.PeriodBucket, error) {
	rows, err := s.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	return aggregate.SalesByPeriod(rows, period), nil
}

// Growth returns period-over-period revenue change for the window. The first
// period has no baseline so its rate is nil.
func (s *SalesAnalytics) Growth(ctx context.Context, startDate, endDate time.Time, period enums.Period) ([]aggregate.GrowthPoint, error) {
	buckets, err := s.Trends(ctx, startDate, endDate, period)
	if err != nil {
		return nil, err
	}

	points := make([]aggregate.PeriodPoint, 0, len(buckets))
	for _, bucket := range buckets {
		points = append(points, aggregate.PeriodPoint{Period: bucket.Period, Value: bucket.TotalAmount})
	}
	return aggregate.GrowthRates(points), nil
}

// RegionalPerformance returns per-region sales for the period.
func (s *SalesAnalytics) RegionalPerformance(ctx context.Context, startDate, endDate time.Time) ([]aggregate.RegionBucket, error) {
	rows, err := s.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	return aggregate.SalesByRegion(rows), nil
}

// TopSellingVehicles returns the n best sellers by revenue.
func (s *SalesAnalytics) TopSellingVehicles(ctx context.Context, n int, startDate, endDate time.Time) ([]aggregate.VehicleBucket, error) {
	rows, err := s.source.SalesWithVehicleInfo(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return aggregate.TopVehicles(rows, n), nil
}

// CategoryBreakdown returns per-category sales for the period.
func (s *SalesAnalytics) CategoryBreakdown(ctx context.Context, startDate, endDate time.Time) ([]aggregate.CategoryBucket, error) {
	rows, err := s.source.SalesWithVehicleInfo(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return aggregate.SalesByCategory(rows), nil
}

// SegmentAnalysis returns per-customer-segment sales for the period.
func (s *SalesAnalytics) SegmentAnalysis(ctx context.Context, startDate, endDate time.Time) ([]aggregate.SegmentBucket, error) {
	rows, err := s.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	return aggregate.SalesBySegment(rows), nil
}

// ComparePeriods contrasts two sales windows. Percentage changes fall back to
// zero when the previous period has no baseline.
func (s *SalesAnalytics) ComparePeriods(ctx context.Context, currentStart, currentEnd, previousStart, previousEnd time.Time) (PeriodComparison, error) {
	current, err := s.Summary(ctx, currentStart, currentEnd)
	if err != nil {
		return PeriodComparison{}, err
	}
	previous, err := s.Summary(ctx, previousStart, previousEnd)
	if err != nil {
		return PeriodComparison{}, err
	}

	comparison := PeriodComparison{
		CurrentPeriod:  current,
		PreviousPeriod: previous,
		RevenueChange:  current.TotalRevenue - previous.TotalRevenue,
		UnitsChange:    current.TotalUnits - previous.TotalUnits,
	}
	if previous.TotalRevenue > 0 {
		comparison.RevenueChangePct = comparison.RevenueChange / previous.TotalRevenue * 100
	}
	if previous.TotalUnits > 0 {
		comparison.UnitsChangePct = float64(comparison.UnitsChange) / float64(previous.TotalUnits) * 100
	}
	return comparison, nil
}
