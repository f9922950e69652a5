package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/metrics"
	"github.com/autovista-ai/autovista-backend/pkg/retryx"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db.FromGorm(conn)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
}

type staticSource struct {
	joined []extract.SaleVehicleRow
	inv    []extract.InventoryVehicleRow
}

func (s *staticSource) Sales(ctx context.Context, filter extract.SalesFilter) ([]extract.SaleRow, error) {
	return nil, nil
}

func (s *staticSource) SalesWithVehicleInfo(ctx context.Context, startDate, endDate time.Time) ([]extract.SaleVehicleRow, error) {
	return s.joined, nil
}

func (s *staticSource) Inventory(ctx context.Context, filter extract.InventoryFilter) ([]extract.InventoryRow, error) {
	return nil, nil
}

func (s *staticSource) InventoryWithVehicleInfo(ctx context.Context) ([]extract.InventoryVehicleRow, error) {
	return s.inv, nil
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func joinedSale(saleID, vehicleID int64, d time.Time, qty int, total float64) extract.SaleVehicleRow {
	return extract.SaleVehicleRow{
		SaleID:          saleID,
		VehicleID:       vehicleID,
		SaleDate:        d,
		Quantity:        qty,
		UnitPrice:       total / float64(qty),
		TotalAmount:     total,
		CustomerSegment: enums.CustomerSegmentIndividual,
		Region:          enums.RegionWest,
		Make:            "Ford",
		Model:           "F-150",
		Category:        enums.VehicleCategoryTruck,
		MSRP:            55000,
	}
}

func testPolicy() retryx.Policy {
	return retryx.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func newTestManager(t *testing.T, source *staticSource) (*Manager, *SnapshotRepository) {
	t.Helper()
	repo := NewSnapshotRepository(openTestDB(t), testPolicy())
	manager := NewManager(source, repo, metrics.NewPipelineMetrics(prometheus.NewRegistry()), testLogger())
	manager.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return manager, repo
}

func TestRunSalesCreatesFiveSnapshots(t *testing.T) {
	source := &staticSource{joined: []extract.SaleVehicleRow{
		joinedSale(1, 10, day(5), 1, 55000),
		joinedSale(2, 11, day(6), 2, 90000),
		joinedSale(2, 11, day(6), 2, 90000), // duplicate row
		joinedSale(3, 12, day(7), 0, 0),     // invalid row
	}}
	manager, repo := newTestManager(t, source)

	result, err := manager.RunSales(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if result.RecordsProcessed != 2 {
		t.Fatalf("expected 2 clean records, got %d", result.RecordsProcessed)
	}
	if result.SnapshotsCreated != 5 {
		t.Fatalf("expected 5 snapshots, got %d", result.SnapshotsCreated)
	}

	for _, metricType := range []enums.MetricType{
		enums.MetricTypeDailySales, enums.MetricTypeSalesByRegion,
		enums.MetricTypeSalesByCategory, enums.MetricTypeSalesBySegment,
		enums.MetricTypeTopVehicles,
	} {
		if _, err := repo.Latest(context.Background(), metricType); err != nil {
			t.Fatalf("missing snapshot %s: %v", metricType, err)
		}
	}

	top, err := repo.Latest(context.Background(), enums.MetricTypeTopVehicles)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	var buckets []map[string]any
	if err := json.Unmarshal(top.MetricData, &buckets); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 vehicles in snapshot, got %d", len(buckets))
	}
	if buckets[0]["total_amount"].(float64) != 90000 {
		t.Fatalf("expected best seller first, got %+v", buckets[0])
	}
}

func TestRunSalesNoData(t *testing.T) {
	manager, _ := newTestManager(t, &staticSource{})

	result, err := manager.RunSales(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != "no_data" || result.SnapshotsCreated != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunInventorySummarySnapshot(t *testing.T) {
	source := &staticSource{inv: []extract.InventoryVehicleRow{
		{InventoryID: 1, VehicleID: 10, WarehouseLocation: "WH-West-01", Region: enums.RegionWest,
			QuantityAvailable: 10, Status: enums.StockStatusActive, Category: enums.VehicleCategoryTruck, MSRP: 55000},
		{InventoryID: 2, VehicleID: 11, WarehouseLocation: "WH-South-01", Region: enums.RegionSouth,
			QuantityAvailable: 2, Status: enums.StockStatusLow, Category: enums.VehicleCategorySedan, MSRP: 30000},
	}}
	manager, repo := newTestManager(t, source)

	result, err := manager.RunInventory(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.SnapshotsCreated != 2 || result.RecordsProcessed != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	summary, err := repo.Latest(context.Background(), enums.MetricTypeInventorySummary)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(summary.MetricData, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data["total_inventory_value"].(float64) != 10*55000+2*30000 {
		t.Fatalf("unexpected value %v", data["total_inventory_value"])
	}
	if data["low_stock_count"].(float64) != 1 {
		t.Fatalf("unexpected low stock %v", data["low_stock_count"])
	}
}

func TestRunFull(t *testing.T) {
	source := &staticSource{
		joined: []extract.SaleVehicleRow{joinedSale(1, 10, day(5), 1, 55000)},
		inv: []extract.InventoryVehicleRow{
			{InventoryID: 1, VehicleID: 10, WarehouseLocation: "WH-West-01", Region: enums.RegionWest,
				QuantityAvailable: 5, Status: enums.StockStatusActive, Category: enums.VehicleCategoryTruck, MSRP: 55000},
		},
	}
	manager, _ := newTestManager(t, source)

	result, err := manager.RunFull(context.Background(), 30)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if result.Sales.SnapshotsCreated != 5 || result.Inventory.SnapshotsCreated != 2 {
		t.Fatalf("unexpected snapshot counts %+v", result)
	}
	if result.CompletedAt.IsZero() {
		t.Fatal("expected completion time")
	}
}

func TestSnapshotRepositoryLatestNotFound(t *testing.T) {
	repo := NewSnapshotRepository(openTestDB(t), testPolicy())

	_, err := repo.Latest(context.Background(), enums.MetricTypeDailySales)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSnapshotSaveRetriesTransientWriteFailures(t *testing.T) {
	client := openTestDB(t)
	attempts := 0
	err := client.DB().Callback().Create().Before("gorm:create").Register("fail_first_two", func(tx *gorm.DB) {
		attempts++
		if attempts <= 2 {
			tx.AddError(errors.New("disk I/O error"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	repo := NewSnapshotRepository(client, testPolicy())
	snapshot, err := repo.Save(context.Background(), enums.MetricTypeDailySales, map[string]int{"units": 3}, day(1))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 write attempts, got %d", attempts)
	}
	if snapshot.ID == 0 {
		t.Fatal("expected persisted snapshot")
	}
}

func TestSnapshotSaveGivesUpAfterMaxAttempts(t *testing.T) {
	client := openTestDB(t)
	attempts := 0
	err := client.DB().Callback().Create().Before("gorm:create").Register("always_fail", func(tx *gorm.DB) {
		attempts++
		tx.AddError(errors.New("disk I/O error"))
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	repo := NewSnapshotRepository(client, retryx.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
	_, err = repo.Save(context.Background(), enums.MetricTypeDailySales, map[string]int{"units": 3}, day(1))
	if !pkgerrors.IsCode(err, pkgerrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 write attempts, got %d", attempts)
	}
}
