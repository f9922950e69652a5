// Package pipeline orchestrates the batch ETL runs that materialize
// analytics snapshots.
package pipeline

import (
	"context"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/aggregate"
	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Status           string `json:"status"`
	RecordsProcessed int    `json:"records_processed"`
	SnapshotsCreated int    `json:"snapshots_created"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
}

// FullRunResult combines the sales and inventory runs.
type FullRunResult struct {
	Status      string    `json:"status"`
	Sales       RunResult `json:"sales"`
	Inventory   RunResult `json:"inventory"`
	CompletedAt time.Time `json:"completed_at"`
}

const (
	statusSuccess = "success"
	statusNoData  = "no_data"
)

// Manager runs the analytics pipelines.
type Manager struct {
	source    analytics.DataSource
	snapshots *SnapshotRepository
	metrics   *metrics.PipelineMetrics
	logg      *logger.Logger

	now func() time.Time
}

func NewManager(source analytics.DataSource, snapshots *SnapshotRepository, pipelineMetrics *metrics.PipelineMetrics, logg *logger.Logger) *Manager {
	return &Manager{
		source:    source,
		snapshots: snapshots,
		metrics:   pipelineMetrics,
		logg:      logg,
		now:       time.Now,
	}
}

// RunSales extracts, cleans, aggregates, and snapshots sales for the period.
// Zero bounds default to the trailing 30 days.
func (m *Manager) RunSales(ctx context.Context, startDate, endDate time.Time) (RunResult, error) {
	started := m.now()
	result, err := m.runSales(ctx, startDate, endDate)
	m.metrics.ObserveDuration("sales", m.now().Sub(started))
	if err != nil {
		m.metrics.IncFailure("sales")
		return result, err
	}
	m.metrics.IncSuccess("sales")
	m.metrics.AddRecords("sales", result.RecordsProcessed)
	return result, nil
}

func (m *Manager) runSales(ctx context.Context, startDate, endDate time.Time) (RunResult, error) {
	if endDate.IsZero() {
		endDate = m.today()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -30)
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
	})
	m.logg.Info(ctx, "starting sales analytics pipeline")

	rows, err := m.source.SalesWithVehicleInfo(ctx, startDate, endDate)
	if err != nil {
		return RunResult{}, err
	}
	if len(rows) == 0 {
		m.logg.Warn(ctx, "no sales data found for the period")
		return RunResult{Status: statusNoData}, nil
	}

	rows = aggregate.DedupeJoined(rows)
	rows = aggregate.DropNonPositiveJoined(rows)
	plain := toSaleRows(rows)

	snapshotDate := m.now().UTC()
	var errs error
	save := func(metricType enums.MetricType, data any) {
		if _, err := m.snapshots.Save(ctx, metricType, data, snapshotDate); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	save(enums.MetricTypeDailySales, aggregate.SalesByPeriod(plain, enums.PeriodDaily))
	save(enums.MetricTypeSalesByRegion, aggregate.SalesByRegion(plain))
	save(enums.MetricTypeSalesByCategory, aggregate.SalesByCategory(rows))
	save(enums.MetricTypeSalesBySegment, aggregate.SalesBySegment(plain))
	save(enums.MetricTypeTopVehicles, aggregate.TopVehicles(rows, 10))
	if errs != nil {
		return RunResult{}, errs
	}

	m.logg.Info(ctx, "sales analytics pipeline completed")
	return RunResult{
		Status:           statusSuccess,
		RecordsProcessed: len(rows),
		SnapshotsCreated: 5,
		StartDate:        startDate.Format("2006-01-02"),
		EndDate:          endDate.Format("2006-01-02"),
	}, nil
}

// RunInventory snapshots the current stock picture.
func (m *Manager) RunInventory(ctx context.Context) (RunResult, error) {
	started := m.now()
	result, err := m.runInventory(ctx)
	m.metrics.ObserveDuration("inventory", m.now().Sub(started))
	if err != nil {
		m.metrics.IncFailure("inventory")
		return result, err
	}
	m.metrics.IncSuccess("inventory")
	m.metrics.AddRecords("inventory", result.RecordsProcessed)
	return result, nil
}

func (m *Manager) runInventory(ctx context.Context) (RunResult, error) {
	m.logg.Info(ctx, "starting inventory analytics pipeline")

	rows, err := m.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return RunResult{}, err
	}
	if len(rows) == 0 {
		m.logg.Warn(ctx, "no inventory data found")
		return RunResult{Status: statusNoData}, nil
	}

	snapshotDate := m.now().UTC()
	var errs error
	if _, err := m.snapshots.Save(ctx, enums.MetricTypeInventoryByStatus, aggregate.InventoryByStatus(rows), snapshotDate); err != nil {
		errs = multierr.Append(errs, err)
	}

	var totalValue float64
	var totalUnits, lowStock, outOfStock int
	vehicles := make(map[int64]struct{})
	for _, row := range rows {
		totalValue += float64(row.QuantityAvailable) * row.MSRP
		totalUnits += row.QuantityAvailable
		vehicles[row.VehicleID] = struct{}{}
		switch row.Status {
		case enums.StockStatusLow:
			lowStock++
		case enums.StockStatusOutOfStock:
			outOfStock++
		}
	}
	summary := map[string]any{
		"total_inventory_value": totalValue,
		"total_units":           totalUnits,
		"low_stock_count":       lowStock,
		"out_of_stock_count":    outOfStock,
		"unique_vehicles":       len(vehicles),
	}
	if _, err := m.snapshots.Save(ctx, enums.MetricTypeInventorySummary, summary, snapshotDate); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return RunResult{}, errs
	}

	m.logg.Info(ctx, "inventory analytics pipeline completed")
	return RunResult{
		Status:           statusSuccess,
		RecordsProcessed: len(rows),
		SnapshotsCreated: 2,
	}, nil
}

// RunFull runs the sales pipeline for the trailing daysBack days followed by
// the inventory pipeline.
func (m *Manager) RunFull(ctx context.Context, daysBack int) (FullRunResult, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	endDate := m.today()
	startDate := endDate.AddDate(0, 0, -daysBack)

	sales, err := m.RunSales(ctx, startDate, endDate)
	if err != nil {
		return FullRunResult{}, err
	}
	inventory, err := m.RunInventory(ctx)
	if err != nil {
		return FullRunResult{}, err
	}

	m.logg.Info(ctx, "full pipeline completed")
	return FullRunResult{
		Status:      statusSuccess,
		Sales:       sales,
		Inventory:   inventory,
		CompletedAt: m.now().UTC(),
	}, nil
}

func (m *Manager) today() time.Time {
	now := m.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func toSaleRows(rows []extract.SaleVehicleRow) []extract.SaleRow {
	out := make([]extract.SaleRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, extract.SaleRow{
			ID:              row.SaleID,
			VehicleID:       row.VehicleID,
			SaleDate:        row.SaleDate,
			Quantity:        row.Quantity,
			UnitPrice:       row.UnitPrice,
			TotalAmount:     row.TotalAmount,
			CustomerSegment: row.CustomerSegment,
			Region:          row.Region,
			DiscountApplied: row.DiscountApplied,
		})
	}
	return out
}
