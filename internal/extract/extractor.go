package extract

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// VehicleFilter narrows catalog extraction.
type VehicleFilter struct {
	Category enums.VehicleCategory
	Make     string
	Year     int
}

// SalesFilter narrows sales extraction. Zero time bounds mean unbounded.
type SalesFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Region    enums.Region
	Segment   enums.CustomerSegment
	VehicleID int64
}

// InventoryFilter narrows inventory extraction.
type InventoryFilter struct {
	Region    enums.Region
	Status    enums.StockStatus
	Warehouse string
}

// VehicleRow is one extracted catalog record with MSRP as float for
// downstream arithmetic.
type VehicleRow struct {
	ID       int64
	VIN      string
	Make     string
	Model    string
	Year     int
	Category enums.VehicleCategory
	Trim     *string
	MSRP     float64
}

// SaleRow is one extracted sales record.
type SaleRow struct {
	ID              int64
	VehicleID       int64
	SaleDate        time.Time
	Quantity        int
	UnitPrice       float64
	TotalAmount     float64
	CustomerSegment enums.CustomerSegment
	Region          enums.Region
	SalespersonID   *string
	DiscountApplied float64
}

// SaleVehicleRow is a sales record joined with its vehicle's catalog fields.
type SaleVehicleRow struct {
	SaleID          int64
	VehicleID       int64
	SaleDate        time.Time
	Quantity        int
	UnitPrice       float64
	TotalAmount     float64
	CustomerSegment enums.CustomerSegment
	Region          enums.Region
	DiscountApplied float64
	Make            string
	Model           string
	Year            int
	Category        enums.VehicleCategory
	MSRP            float64
}

// InventoryRow is one extracted inventory record.
type InventoryRow struct {
	ID                int64
	VehicleID         int64
	WarehouseLocation string
	Region            enums.Region
	QuantityAvailable int
	QuantityReserved  int
	ReorderPoint      int
	Status            enums.StockStatus
	LastRestocked     *time.Time
}

// InventoryVehicleRow is an inventory record joined with catalog fields.
type InventoryVehicleRow struct {
	InventoryID       int64
	VehicleID         int64
	WarehouseLocation string
	Region            enums.Region
	QuantityAvailable int
	QuantityReserved  int
	Status            enums.StockStatus
	Make              string
	Model             string
	Year              int
	Category          enums.VehicleCategory
	MSRP              float64
}

// Extractor reads raw rows for the analytics pipeline.
type Extractor struct {
	db   *gorm.DB
	logg *logger.Logger
}

// New builds an Extractor over the shared connection.
func New(db *gorm.DB, logg *logger.Logger) *Extractor {
	return &Extractor{db: db, logg: logg}
}

// Vehicles extracts catalog records matching the filter.
func (e *Extractor) Vehicles(ctx context.Context, filter VehicleFilter) ([]VehicleRow, error) {
	query := e.db.WithContext(ctx).Model(&models.Vehicle{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Make != "" {
		query = query.Where("make = ?", filter.Make)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "extracting vehicles")
	}

	rows := make([]VehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, VehicleRow{
			ID:       v.ID,
			VIN:      v.VIN,
			Make:     v.Make,
			Model:    v.Model,
			Year:     v.Year,
			Category: v.Category,
			Trim:     v.Trim,
			MSRP:     v.MSRP.InexactFloat64(),
		})
	}
	e.logg.Info(e.logg.WithField(ctx, "count", len(rows)), "extracted vehicles")
	return rows, nil
}

// Sales extracts sales records within the filter's bounds.
func (e *Extractor) Sales(ctx context.Context, filter SalesFilter) ([]SaleRow, error) {
	query := e.db.WithContext(ctx).Model(&models.SaleTransaction{})
	if !filter.StartDate.IsZero() {
		query = query.Where("sale_date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("sale_date <= ?", filter.EndDate)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Segment != "" {
		query = query.Where("customer_segment = ?", filter.Segment)
	}
	if filter.VehicleID != 0 {
		query = query.Where("vehicle_id = ?", filter.VehicleID)
	}

	var sales []models.SaleTransaction
	if err := query.Find(&sales).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "extracting sales")
	}

	rows := make([]SaleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, SaleRow{
			ID:              s.ID,
			VehicleID:       s.VehicleID,
			SaleDate:        s.SaleDate,
			Quantity:        s.Quantity,
			UnitPrice:       s.UnitPrice.InexactFloat64(),
			TotalAmount:     s.TotalAmount.InexactFloat64(),
			CustomerSegment: s.CustomerSegment,
			Region:          s.Region,
			SalespersonID:   s.SalespersonID,
			DiscountApplied: s.DiscountApplied.InexactFloat64(),
		})
	}
	return rows, nil
}

// SalesWithVehicleInfo extracts sales joined with catalog fields for
// category and model level aggregation.
func (e *Extractor) SalesWithVehicleInfo(ctx context.Context, startDate, endDate time.Time) ([]SaleVehicleRow, error) {
	query := e.db.WithContext(ctx).
		Table("sales").
		Select(`sales.id AS sale_id, sales.vehicle_id, sales.sale_date, sales.quantity,
			sales.unit_price, sales.total_amount, sales.customer_segment, sales.region,
			sales.discount_applied, vehicles.make, vehicles.model, vehicles.year,
			vehicles.category, vehicles.msrp`).
		Joins("JOIN vehicles ON sales.vehicle_id = vehicles.id")
	if !startDate.IsZero() {
		query = query.Where("sales.sale_date >= ?", startDate)
	}
	if !endDate.IsZero() {
		query = query.Where("sales.sale_date <= ?", endDate)
	}

	var rows []SaleVehicleRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "extracting sales with vehicle info")
	}
	return rows, nil
}

// Inventory extracts stock records matching the filter.
func (e *Extractor) Inventory(ctx context.Context, filter InventoryFilter) ([]InventoryRow, error) {
	query := e.db.WithContext(ctx).Model(&models.InventoryRecord{})
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Warehouse != "" {
		query = query.Where("warehouse_location = ?", filter.Warehouse)
	}

	var records []models.InventoryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "extracting inventory")
	}

	rows := make([]InventoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, InventoryRow{
			ID:                rec.ID,
			VehicleID:         rec.VehicleID,
			WarehouseLocation: rec.WarehouseLocation,
			Region:            rec.Region,
			QuantityAvailable: rec.QuantityAvailable,
			QuantityReserved:  rec.QuantityReserved,
			ReorderPoint:      rec.ReorderPoint,
			Status:            rec.Status,
			LastRestocked:     rec.LastRestocked,
		})
	}
	return rows, nil
}

// InventoryWithVehicleInfo extracts inventory joined with catalog fields.
func (e *Extractor) InventoryWithVehicleInfo(ctx context.Context) ([]InventoryVehicleRow, error) {
	var rows []InventoryVehicleRow
	err := e.db.WithContext(ctx).
		Table("inventory").
		Select(`inventory.id AS inventory_id, inventory.vehicle_id, inventory.warehouse_location,
			inventory.region, inventory.quantity_available, inventory.quantity_reserved,
			inventory.status, vehicles.make, vehicles.model, vehicles.year,
			vehicles.category, vehicles.msrp`).
		Joins("JOIN vehicles ON inventory.vehicle_id = vehicles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "extracting inventory with vehicle info")
	}
	return rows, nil
}
