package reports

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/internal/catalog"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/llm/llmtest"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/shopspring/decimal"
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
	sales  []extract.SaleRow
	joined []extract.SaleVehicleRow
	inv    []extract.InventoryVehicleRow
}

func (s *staticSource) Sales(ctx context.Context, filter extract.SalesFilter) ([]extract.SaleRow, error) {
	out := make([]extract.SaleRow, 0, len(s.sales))
	for _, row := range s.sales {
		if filter.VehicleID != 0 && row.VehicleID != filter.VehicleID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
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

func newTestService(t *testing.T, source *staticSource, fake *llmtest.Fake) (*Service, *catalog.Repository) {
	t.Helper()
	logg := testLogger()
	vehicles := catalog.NewRepository(openTestDB(t))
	sales := analytics.NewSalesAnalytics(source, logg)
	inventory := analytics.NewInventoryAnalytics(source, 3.0, logg)
	kpis := analytics.NewKPICalculator(sales, inventory, nil, 0, logg)
	service := NewService(fake, sales, inventory, kpis, vehicles, source, logg)
	service.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return service, vehicles
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateExecutive(t *testing.T) {
	source := &staticSource{sales: []extract.SaleRow{{
		ID: 1, VehicleID: 1, SaleDate: day(5), Quantity: 1,
		UnitPrice: 45000, TotalAmount: 45000,
		CustomerSegment: enums.CustomerSegmentIndividual, Region: enums.RegionWest,
	}}}
	fake := &llmtest.Fake{Responses: []string{"Revenue held steady this period."}}
	service, _ := newTestService(t, source, fake)

	report, err := service.GenerateExecutive(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Type != enums.ReportTypeExecutive {
		t.Fatalf("unexpected type %q", report.Type)
	}
	if report.Title != "Executive Summary - 2026-03-01 to 2026-03-31" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if report.Content != "Revenue held steady this period." {
		t.Fatalf("unexpected content %q", report.Content)
	}

	call := fake.LastCall()
	if !strings.Contains(call.Messages[1].Content, "Total Revenue: $45000.00") {
		t.Fatal("prompt missing KPI data")
	}
	if call.Opts.Temperature == nil || *call.Opts.Temperature != 0.5 {
		t.Fatal("expected temperature 0.5")
	}
}

func TestGenerateDetailedCarriesData(t *testing.T) {
	source := &staticSource{sales: []extract.SaleRow{{
		ID: 1, VehicleID: 1, SaleDate: day(5), Quantity: 2,
		UnitPrice: 30000, TotalAmount: 60000,
		CustomerSegment: enums.CustomerSegmentFleet, Region: enums.RegionSouth,
	}}}
	fake := &llmtest.Fake{Responses: []string{"Detailed analysis here."}}
	service, _ := newTestService(t, source, fake)

	report, err := service.GenerateDetailed(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Type != enums.ReportTypeDetailed {
		t.Fatalf("unexpected type %q", report.Type)
	}
	if report.Data["sales"] == nil || report.Data["kpis"] == nil || report.Data["inventory"] == nil {
		t.Fatalf("expected data sections, got %v", report.Data)
	}

	call := fake.LastCall()
	if !strings.Contains(call.Messages[1].Content, "Customer Segment Analysis") {
		t.Fatal("prompt missing segment section")
	}
}

func TestGenerateProduct(t *testing.T) {
	source := &staticSource{sales: []extract.SaleRow{
		{ID: 1, VehicleID: 1, SaleDate: day(5), Quantity: 2, UnitPrice: 30000, TotalAmount: 60000,
			CustomerSegment: enums.CustomerSegmentIndividual, Region: enums.RegionWest},
		{ID: 2, VehicleID: 2, SaleDate: day(6), Quantity: 1, UnitPrice: 50000, TotalAmount: 50000,
			CustomerSegment: enums.CustomerSegmentIndividual, Region: enums.RegionWest},
	}}
	fake := &llmtest.Fake{Responses: []string{"The Camry performs well."}}
	service, vehicles := newTestService(t, source, fake)

	created := &models.Vehicle{
		VIN: "1HGBH41JXMN109186", Make: "Toyota", Model: "Camry",
		Year: 2026, Category: enums.VehicleCategorySedan, MSRP: decimal.NewFromInt(30000),
	}
	if err := vehicles.Create(context.Background(), created); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	report, err := service.GenerateProduct(context.Background(), created.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Title != "Product Report - Toyota Camry" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if report.VehicleID != created.ID {
		t.Fatalf("unexpected vehicle id %d", report.VehicleID)
	}

	call := fake.LastCall()
	if !strings.Contains(call.Messages[1].Content, "Total Units Sold: 2") {
		t.Fatal("prompt should only count this vehicle's sales")
	}
	if !strings.Contains(call.Messages[1].Content, "Average Sale Price: $30000.00") {
		t.Fatal("prompt missing average sale price")
	}
}

func TestGenerateProductUnknownVehicle(t *testing.T) {
	service, _ := newTestService(t, &staticSource{}, &llmtest.Fake{})

	_, err := service.GenerateProduct(context.Background(), 9999, time.Time{}, time.Time{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportMarkdown(t *testing.T) {
	report := Report{
		Title:       "Executive Summary - March",
		GeneratedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
		Content:     "All good.",
	}

	md := ExportMarkdown(report)
	if !strings.HasPrefix(md, "# Executive Summary - March\n\n") {
		t.Fatalf("unexpected header: %q", md[:40])
	}
	if !strings.Contains(md, "**Period:** 2026-03-01 to 2026-03-31") {
		t.Fatal("missing period line")
	}
	if !strings.HasSuffix(md, "---\n\nAll good.") {
		t.Fatalf("unexpected tail: %q", md)
	}
}

func TestExportHTML(t *testing.T) {
	report := Report{
		Title:       "Product Report - Toyota Camry",
		GeneratedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Content:     "First paragraph.\n\nSecond paragraph.",
	}

	html := ExportHTML(report)
	if !strings.Contains(html, "<title>Product Report - Toyota Camry</title>") {
		t.Fatal("missing title")
	}
	if !strings.Contains(html, "First paragraph.</p><p>Second paragraph.") {
		t.Fatal("paragraphs not split")
	}
	if strings.Contains(html, "Period:") {
		t.Fatal("period should be omitted when unset")
	}
}
