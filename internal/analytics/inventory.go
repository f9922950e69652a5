package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/aggregate"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// InventorySummary is the headline view of current stock.
type InventorySummary struct {
	TotalUnits      int     `json:"total_units"`
	TotalReserved   int     `json:"total_reserved"`
	TotalValue      float64 `json:"total_value"`
	UniqueVehicles  int     `json:"unique_vehicles"`
	LowStockCount   int     `json:"low_stock_count"`
	OutOfStockCount int     `json:"out_of_stock_count"`
	ActiveCount     int     `json:"active_count"`
}

// RegionInventory is stock aggregated per region.
type RegionInventory struct {
	Region            enums.Region `json:"region"`
	QuantityAvailable int          `json:"quantity_available"`
	QuantityReserved  int          `json:"quantity_reserved"`
	RecordCount       int          `json:"record_count"`
}

// CategoryInventory is stock aggregated per vehicle category.
type CategoryInventory struct {
	Category          enums.VehicleCategory `json:"category"`
	QuantityAvailable int                   `json:"quantity_available"`
	QuantityReserved  int                   `json:"quantity_reserved"`
	RecordCount       int                   `json:"record_count"`
}

// StockAlert flags one low or overstocked position.
type StockAlert struct {
	VehicleID         int64                 `json:"vehicle_id"`
	Make              string                `json:"make"`
	Model             string                `json:"model"`
	Category          enums.VehicleCategory `json:"category"`
	WarehouseLocation string                `json:"warehouse_location"`
	Region            enums.Region          `json:"region,omitempty"`
	QuantityAvailable int                   `json:"quantity_available"`
}

// WarehouseUtilization is stock and value held at one warehouse.
type WarehouseUtilization struct {
	WarehouseLocation string  `json:"warehouse_location"`
	QuantityAvailable int     `json:"quantity_available"`
	QuantityReserved  int     `json:"quantity_reserved"`
	TotalValue        float64 `json:"total_value"`
}

// InventoryAnalytics computes stock views over extracted rows.
type InventoryAnalytics struct {
	source              DataSource
	overstockMultiplier float64
	logg                *logger.Logger
}

// NewInventoryAnalytics builds the calculator. overstockMultiplier scales the
// per-category mean for overstock detection; values <= 0 fall back to 3.
func NewInventoryAnalytics(source DataSource, overstockMultiplier float64, logg *logger.Logger) *InventoryAnalytics {
	if overstockMultiplier <= 0 {
		overstockMultiplier = 3.0
	}
	return &InventoryAnalytics{source: source, overstockMultiplier: overstockMultiplier, logg: logg}
}

// Summary computes headline stock numbers. Value is units on hand times MSRP.
func (a *InventoryAnalytics) Summary(ctx context.Context) (InventorySummary, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return InventorySummary{}, err
	}

	summary := InventorySummary{}
	vehicles := make(map[int64]struct{})
	for _, row := range rows {
		summary.TotalUnits += row.QuantityAvailable
		summary.TotalReserved += row.QuantityReserved
		summary.TotalValue += float64(row.QuantityAvailable) * row.MSRP
		vehicles[row.VehicleID] = struct{}{}
		switch row.Status {
		case enums.StockStatusLow:
			summary.LowStockCount++
		case enums.StockStatusOutOfStock:
			summary.OutOfStockCount++
		case enums.StockStatusActive:
			summary.ActiveCount++
		}
	}
	summary.UniqueVehicles = len(vehicles)
	return summary, nil
}

// ByRegion aggregates stock per region, sorted by region name.
func (a *InventoryAnalytics) ByRegion(ctx context.Context) ([]RegionInventory, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[enums.Region]*RegionInventory)
	for _, row := range rows {
		bucket, ok := byRegion[row.Region]
		if !ok {
			bucket = &RegionInventory{Region: row.Region}
			byRegion[row.Region] = bucket
		}
		bucket.QuantityAvailable += row.QuantityAvailable
		bucket.QuantityReserved += row.QuantityReserved
		bucket.RecordCount++
	}

	out := make([]RegionInventory, 0, len(byRegion))
	for _, bucket := range byRegion {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

// ByCategory aggregates stock per vehicle category, sorted by category.
func (a *InventoryAnalytics) ByCategory(ctx context.Context) ([]CategoryInventory, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[enums.VehicleCategory]*CategoryInventory)
	for _, row := range rows {
		bucket, ok := byCategory[row.Category]
		if !ok {
			bucket = &CategoryInventory{Category: row.Category}
			byCategory[row.Category] = bucket
		}
		bucket.QuantityAvailable += row.QuantityAvailable
		bucket.QuantityReserved += row.QuantityReserved
		bucket.RecordCount++
	}

	out := make([]CategoryInventory, 0, len(byCategory))
	for _, bucket := range byCategory {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// ByStatus aggregates stock per status.
func (a *InventoryAnalytics) ByStatus(ctx context.Context) ([]aggregate.StatusBucket, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.InventoryByStatus(rows), nil
}

// LowStockAlerts lists positions currently flagged low.
func (a *InventoryAnalytics) LowStockAlerts(ctx context.Context) ([]StockAlert, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]StockAlert, 0)
	for _, row := range rows {
		if row.Status != enums.StockStatusLow {
			continue
		}
		alerts = append(alerts, StockAlert{
			VehicleID:         row.VehicleID,
			Make:              row.Make,
			Model:             row.Model,
			Category:          row.Category,
			WarehouseLocation: row.WarehouseLocation,
			Region:            row.Region,
			QuantityAvailable: row.QuantityAvailable,
		})
	}
	return alerts, nil
}

// OverstockItems lists positions holding more than the configured multiple of
// their category's mean quantity.
func (a *InventoryAnalytics) OverstockItems(ctx context.Context) ([]StockAlert, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []StockAlert{}, nil
	}

	sums := make(map[enums.VehicleCategory]int)
	counts := make(map[enums.VehicleCategory]int)
	for _, row := range rows {
		sums[row.Category] += row.QuantityAvailable
		counts[row.Category]++
	}

	alerts := make([]StockAlert, 0)
	for _, row := range rows {
		mean := float64(sums[row.Category]) / float64(counts[row.Category])
		if float64(row.QuantityAvailable) > mean*a.overstockMultiplier {
			alerts = append(alerts, StockAlert{
				VehicleID:         row.VehicleID,
				Make:              row.Make,
				Model:             row.Model,
				Category:          row.Category,
				WarehouseLocation: row.WarehouseLocation,
				QuantityAvailable: row.QuantityAvailable,
			})
		}
	}
	return alerts, nil
}

// WarehouseUtilizationReport aggregates stock and held value per warehouse,
// sorted by location.
func (a *InventoryAnalytics) WarehouseUtilizationReport(ctx context.Context) ([]WarehouseUtilization, error) {
	rows, err := a.source.InventoryWithVehicleInfo(ctx)
	if err != nil {
		return nil, err
	}

	byWarehouse := make(map[string]*WarehouseUtilization)
	for _, row := range rows {
		bucket, ok := byWarehouse[row.WarehouseLocation]
		if !ok {
			bucket = &WarehouseUtilization{WarehouseLocation: row.WarehouseLocation}
			byWarehouse[row.WarehouseLocation] = bucket
		}
		bucket.QuantityAvailable += row.QuantityAvailable
		bucket.QuantityReserved += row.QuantityReserved
		bucket.TotalValue += float64(row.QuantityAvailable) * row.MSRP
	}

	out := make([]WarehouseUtilization, 0, len(byWarehouse))
	for _, bucket := range byWarehouse {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseLocation < out[j].WarehouseLocation })
	return out, nil
}

// VehicleTurnover relates units sold in the window to units currently held,
// per vehicle, sorted by turnover rate descending.
func (a *InventoryAnalytics) VehicleTurnover(ctx context.Context, startDate, endDate time.Time) ([]aggregate.TurnoverRow, error) {
	sales, err := a.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	stock, err := a.source.Inventory(ctx, extract.InventoryFilter{})
	if err != nil {
		return nil, err
	}

	rows := aggregate.TurnoverByVehicle(sales, stock)
	sort.Slice(rows, func(i, j int) bool { return rows[i].TurnoverRate > rows[j].TurnoverRate })
	return rows, nil
}
