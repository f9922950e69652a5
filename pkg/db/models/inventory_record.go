package models

import (
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// InventoryRecord tracks stock levels for one vehicle at one warehouse.
type InventoryRecord struct {
	ID                int64             `gorm:"column:id;primaryKey;autoIncrement"`
	VehicleID         int64             `gorm:"column:vehicle_id;not null;index:idx_vehicle_warehouse,priority:1"`
	WarehouseLocation string            `gorm:"column:warehouse_location;size:200;not null;index:idx_vehicle_warehouse,priority:2"`
	Region            enums.Region      `gorm:"column:region;size:100;not null;index:idx_region_status,priority:1"`
	QuantityAvailable int               `gorm:"column:quantity_available;not null;default:0;check:quantity_available >= 0"`
	QuantityReserved  int               `gorm:"column:quantity_reserved;not null;default:0;check:quantity_reserved >= 0"`
	ReorderPoint      int               `gorm:"column:reorder_point;not null;default:10"`
	LastRestocked     *time.Time        `gorm:"column:last_restocked"`
	Status            enums.StockStatus `gorm:"column:status;size:20;not null;default:active;index:idx_region_status,priority:2"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime;not null"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime;not null"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
}

// TableName implements the GORM table naming convention.
func (InventoryRecord) TableName() string {
	return "inventory"
}

// RecalculateStatus keeps the persisted status consistent with quantities.
// out_of_stock when nothing is available, low below the reorder point,
// active otherwise.
func (r *InventoryRecord) RecalculateStatus() {
	switch {
	case r.QuantityAvailable == 0:
		r.Status = enums.StockStatusOutOfStock
	case r.QuantityAvailable < r.ReorderPoint:
		r.Status = enums.StockStatusLow
	default:
		r.Status = enums.StockStatusActive
	}
}
