package analytics

import (
	"context"
	"testing"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

func invRow(vehicleID int64, warehouse string, region enums.Region, qty, reserved int, status enums.StockStatus, category enums.VehicleCategory, msrp float64) extract.InventoryVehicleRow {
	return extract.InventoryVehicleRow{
		InventoryID:       vehicleID,
		VehicleID:         vehicleID,
		WarehouseLocation: warehouse,
		Region:            region,
		QuantityAvailable: qty,
		QuantityReserved:  reserved,
		Status:            status,
		Make:              "Toyota",
		Model:             "Camry",
		Category:          category,
		MSRP:              msrp,
	}
}

func TestInventorySummary(t *testing.T) {
	source := &fakeSource{invJoined: []extract.InventoryVehicleRow{
		invRow(1, "WH-West-01", enums.RegionWest, 10, 2, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(2, "WH-West-01", enums.RegionWest, 3, 0, enums.StockStatusLow, enums.VehicleCategorySUV, 45000),
		invRow(2, "WH-South-01", enums.RegionSouth, 0, 0, enums.StockStatusOutOfStock, enums.VehicleCategorySUV, 45000),
	}}
	analytics := NewInventoryAnalytics(source, 3.0, testLogger())

	summary, err := analytics.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalUnits != 13 || summary.TotalReserved != 2 {
		t.Fatalf("unexpected unit totals %+v", summary)
	}
	if summary.TotalValue != 10*30000+3*45000 {
		t.Fatalf("expected value 435000, got %v", summary.TotalValue)
	}
	if summary.UniqueVehicles != 2 {
		t.Fatalf("expected 2 unique vehicles, got %d", summary.UniqueVehicles)
	}
	if summary.ActiveCount != 1 || summary.LowStockCount != 1 || summary.OutOfStockCount != 1 {
		t.Fatalf("unexpected status counts %+v", summary)
	}
}

func TestLowStockAlerts(t *testing.T) {
	source := &fakeSource{invJoined: []extract.InventoryVehicleRow{
		invRow(1, "WH-West-01", enums.RegionWest, 10, 0, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(2, "WH-South-01", enums.RegionSouth, 2, 0, enums.StockStatusLow, enums.VehicleCategoryTruck, 60000),
	}}
	analytics := NewInventoryAnalytics(source, 3.0, testLogger())

	alerts, err := analytics.LowStockAlerts(context.Background())
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].VehicleID != 2 || alerts[0].WarehouseLocation != "WH-South-01" {
		t.Fatalf("unexpected alert %+v", alerts[0])
	}
}

func TestOverstockItems(t *testing.T) {
	// Sedan mean is (40+10+10)/3 = 20; only the 40-unit position crosses
	// the 1.5x multiplier.
	source := &fakeSource{invJoined: []extract.InventoryVehicleRow{
		invRow(1, "WH-West-01", enums.RegionWest, 40, 0, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(2, "WH-West-02", enums.RegionWest, 10, 0, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(3, "WH-South-01", enums.RegionSouth, 10, 0, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
	}}
	analytics := NewInventoryAnalytics(source, 1.5, testLogger())

	alerts, err := analytics.OverstockItems(context.Background())
	if err != nil {
		t.Fatalf("overstock: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 overstock item, got %d", len(alerts))
	}
	if alerts[0].VehicleID != 1 || alerts[0].QuantityAvailable != 40 {
		t.Fatalf("unexpected overstock %+v", alerts[0])
	}
}

func TestWarehouseUtilizationReport(t *testing.T) {
	source := &fakeSource{invJoined: []extract.InventoryVehicleRow{
		invRow(1, "WH-West-01", enums.RegionWest, 10, 1, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(2, "WH-West-01", enums.RegionWest, 5, 0, enums.StockStatusActive, enums.VehicleCategorySUV, 40000),
		invRow(3, "WH-South-01", enums.RegionSouth, 4, 0, enums.StockStatusActive, enums.VehicleCategoryTruck, 60000),
	}}
	analytics := NewInventoryAnalytics(source, 3.0, testLogger())

	report, err := analytics.WarehouseUtilizationReport(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("expected 2 warehouses, got %d", len(report))
	}
	if report[0].WarehouseLocation != "WH-South-01" {
		t.Fatalf("expected sorted order, got %+v", report)
	}
	if report[1].QuantityAvailable != 15 || report[1].TotalValue != 10*30000+5*40000 {
		t.Fatalf("unexpected west warehouse %+v", report[1])
	}
}

func TestInventoryByRegionAndCategory(t *testing.T) {
	source := &fakeSource{invJoined: []extract.InventoryVehicleRow{
		invRow(1, "WH-West-01", enums.RegionWest, 10, 1, enums.StockStatusActive, enums.VehicleCategorySedan, 30000),
		invRow(2, "WH-West-02", enums.RegionWest, 5, 0, enums.StockStatusLow, enums.VehicleCategorySedan, 30000),
		invRow(3, "WH-South-01", enums.RegionSouth, 4, 2, enums.StockStatusActive, enums.VehicleCategoryTruck, 60000),
	}}
	analytics := NewInventoryAnalytics(source, 3.0, testLogger())

	regions, err := analytics.ByRegion(context.Background())
	if err != nil {
		t.Fatalf("by region: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	for _, region := range regions {
		if region.Region == enums.RegionWest && (region.QuantityAvailable != 15 || region.RecordCount != 2) {
			t.Fatalf("unexpected west bucket %+v", region)
		}
	}

	categories, err := analytics.ByCategory(context.Background())
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
}

func TestVehicleTurnover(t *testing.T) {
	source := &fakeSource{
		sales: []extract.SaleRow{
			{ID: 1, VehicleID: 1, SaleDate: date(2026, 1, 5), Quantity: 3},
			{ID: 2, VehicleID: 1, SaleDate: date(2026, 1, 9), Quantity: 3},
			{ID: 3, VehicleID: 2, SaleDate: date(2026, 1, 7), Quantity: 4},
		},
		inventory: []extract.InventoryRow{
			{ID: 1, VehicleID: 1, QuantityAvailable: 3, Status: enums.StockStatusActive},
		},
	}
	analytics := NewInventoryAnalytics(source, 3.0, testLogger())

	rows, err := analytics.VehicleTurnover(context.Background(), date(2026, 1, 1), date(2026, 1, 31))
	if err != nil {
		t.Fatalf("turnover: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].VehicleID != 2 || rows[0].TurnoverRate != 4 {
		t.Fatalf("expected vehicle 2 with floor-held rate 4 first, got %+v", rows[0])
	}
	if rows[1].VehicleID != 1 || rows[1].TurnoverRate != 2 {
		t.Fatalf("unexpected vehicle 1 turnover %+v", rows[1])
	}
}
