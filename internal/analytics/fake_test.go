package analytics

import (
	"context"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// fakeSource serves canned rows and applies the date filter the way the
// database extractor would.
type fakeSource struct {
	sales     []extract.SaleRow
	joined    []extract.SaleVehicleRow
	inventory []extract.InventoryRow
	invJoined []extract.InventoryVehicleRow
	err       error
}

func (f *fakeSource) Sales(ctx context.Context, filter extract.SalesFilter) ([]extract.SaleRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]extract.SaleRow, 0, len(f.sales))
	for _, row := range f.sales {
		if !filter.StartDate.IsZero() && row.SaleDate.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && row.SaleDate.After(filter.EndDate) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSource) SalesWithVehicleInfo(ctx context.Context, startDate, endDate time.Time) ([]extract.SaleVehicleRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]extract.SaleVehicleRow, 0, len(f.joined))
	for _, row := range f.joined {
		if !startDate.IsZero() && row.SaleDate.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && row.SaleDate.After(endDate) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSource) Inventory(ctx context.Context, filter extract.InventoryFilter) ([]extract.InventoryRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inventory, nil
}

func (f *fakeSource) InventoryWithVehicleInfo(ctx context.Context) ([]extract.InventoryVehicleRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.invJoined, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
