package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(Options{
		Seed:         seed,
		VehicleCount: 50,
		SalesCount:   200,
		SalesMonths:  6,
		Now:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
}

func TestVehiclesHaveValidVINs(t *testing.T) {
	vehicles := newTestGenerator(42).Vehicles()
	if len(vehicles) != 50 {
		t.Fatalf("expected 50 vehicles, got %d", len(vehicles))
	}

	seen := map[string]bool{}
	for _, vehicle := range vehicles {
		if len(vehicle.VIN) != 17 {
			t.Fatalf("VIN %q is not 17 characters", vehicle.VIN)
		}
		if strings.ContainsAny(vehicle.VIN, "IOQ") {
			t.Fatalf("VIN %q contains an excluded character", vehicle.VIN)
		}
		if seen[vehicle.VIN] {
			t.Fatalf("duplicate VIN %q", vehicle.VIN)
		}
		seen[vehicle.VIN] = true

		if vehicle.Year < 2020 || vehicle.Year > 2024 {
			t.Fatalf("year %d out of range", vehicle.Year)
		}
		if !vehicle.Category.IsValid() {
			t.Fatalf("invalid category %q", vehicle.Category)
		}
	}
}

func TestVehiclesMSRPWithinCategoryRange(t *testing.T) {
	for _, vehicle := range newTestGenerator(42).Vehicles() {
		priceRange := msrpRangeFor(vehicle.Category)
		msrp, _ := vehicle.MSRP.Float64()
		if msrp < priceRange.min || msrp > priceRange.max {
			t.Fatalf("%s %s msrp %.2f outside [%.2f, %.2f]",
				vehicle.Make, vehicle.Model, msrp, priceRange.min, priceRange.max)
		}
	}
}

func TestGeneratorReproducible(t *testing.T) {
	first := newTestGenerator(7).Vehicles()
	second := newTestGenerator(7).Vehicles()

	for i := range first {
		if first[i].VIN != second[i].VIN || !first[i].MSRP.Equal(second[i].MSRP) {
			t.Fatalf("run diverged at vehicle %d", i)
		}
	}
}

func TestInventoryStatusDerivation(t *testing.T) {
	gen := newTestGenerator(42)
	vehicles := gen.Vehicles()
	for i := range vehicles {
		vehicles[i].ID = int64(i + 1)
	}

	records := gen.Inventory(vehicles)
	if len(records) < len(vehicles)*2 {
		t.Fatalf("expected at least two warehouses per vehicle, got %d records", len(records))
	}
	for _, record := range records {
		want := enums.StockStatusActive
		switch {
		case record.QuantityAvailable == 0:
			want = enums.StockStatusOutOfStock
		case record.QuantityAvailable < record.ReorderPoint:
			want = enums.StockStatusLow
		}
		if record.Status != want {
			t.Fatalf("quantity %d reorder %d: status %q, want %q",
				record.QuantityAvailable, record.ReorderPoint, record.Status, want)
		}
		if record.QuantityReserved > 5 || record.QuantityReserved > record.QuantityAvailable {
			t.Fatalf("reserved %d exceeds cap for quantity %d",
				record.QuantityReserved, record.QuantityAvailable)
		}
		if record.VehicleID == 0 {
			t.Fatal("inventory record missing vehicle id")
		}
	}
}

func TestSalesPricingAndSegments(t *testing.T) {
	gen := newTestGenerator(42)
	vehicles := gen.Vehicles()
	for i := range vehicles {
		vehicles[i].ID = int64(i + 1)
	}
	msrpByID := map[int64]float64{}
	for _, vehicle := range vehicles {
		msrp, _ := vehicle.MSRP.Float64()
		msrpByID[vehicle.ID] = msrp
	}

	start := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	sales := gen.Sales(vehicles)
	if len(sales) != 200 {
		t.Fatalf("expected 200 sales, got %d", len(sales))
	}
	for _, sale := range sales {
		if sale.SaleDate.Before(start) || sale.SaleDate.After(end) {
			t.Fatalf("sale date %s outside window", sale.SaleDate.Format("2006-01-02"))
		}

		discount, _ := sale.DiscountApplied.Float64()
		if discount < 0 || discount > 25 {
			t.Fatalf("discount %.2f outside [0, 25]", discount)
		}

		unitPrice, _ := sale.UnitPrice.Float64()
		if unitPrice > msrpByID[sale.VehicleID] {
			t.Fatalf("unit price %.2f above msrp %.2f", unitPrice, msrpByID[sale.VehicleID])
		}

		total, _ := sale.TotalAmount.Float64()
		if want := unitPrice * float64(sale.Quantity); total < want-0.01 || total > want+0.01 {
			t.Fatalf("total %.2f, want %.2f", total, want)
		}

		switch sale.CustomerSegment {
		case enums.CustomerSegmentIndividual:
			if sale.Quantity != 1 {
				t.Fatalf("individual sale quantity %d, want 1", sale.Quantity)
			}
		case enums.CustomerSegmentFleet:
			if sale.Quantity < 3 || sale.Quantity > 20 {
				t.Fatalf("fleet quantity %d outside [3, 20]", sale.Quantity)
			}
		case enums.CustomerSegmentDealer:
			if sale.Quantity < 5 || sale.Quantity > 30 {
				t.Fatalf("dealer quantity %d outside [5, 30]", sale.Quantity)
			}
		default:
			t.Fatalf("unknown segment %q", sale.CustomerSegment)
		}

		if sale.SalespersonID == nil || !strings.HasPrefix(*sale.SalespersonID, "SP") {
			t.Fatal("sale missing salesperson id")
		}
	}
}
