package analytics

import (
	"context"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/extract"
)

// DataSource is the extraction surface the calculators read from.
// *extract.Extractor is the production implementation.
type DataSource interface {
	Sales(ctx context.Context, filter extract.SalesFilter) ([]extract.SaleRow, error)
	SalesWithVehicleInfo(ctx context.Context, startDate, endDate time.Time) ([]extract.SaleVehicleRow, error)
	Inventory(ctx context.Context, filter extract.InventoryFilter) ([]extract.InventoryRow, error)
	InventoryWithVehicleInfo(ctx context.Context) ([]extract.InventoryVehicleRow, error)
}
