package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// SaleTransaction records a single completed vehicle sale.
type SaleTransaction struct {
	ID              int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	VehicleID       int64                 `gorm:"column:vehicle_id;not null;index:idx_vehicle_sale_date,priority:1"`
	SaleDate        time.Time             `gorm:"column:sale_date;type:date;not null;index:idx_vehicle_sale_date,priority:2;index:idx_sale_date_region,priority:1"`
	Quantity        int                   `gorm:"column:quantity;not null;default:1"`
	UnitPrice       decimal.Decimal       `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CustomerSegment enums.CustomerSegment `gorm:"column:customer_segment;size:50;not null;index:idx_customer_segment_date,priority:1"`
	Region          enums.Region          `gorm:"column:region;size:100;not null;index:idx_sale_date_region,priority:2"`
	SalespersonID   *string               `gorm:"column:salesperson_id;size:50"`
	DiscountApplied decimal.Decimal       `gorm:"column:discount_applied;type:numeric(5,2);not null;default:0"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime;not null"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
}

// TableName implements the GORM table naming convention.
func (SaleTransaction) TableName() string {
	return "sales"
}

// RecalculateTotal derives total_amount from unit price and quantity. The
// discount percentage is informational; unit_price is already net of it.
func (s *SaleTransaction) RecalculateTotal() {
	s.TotalAmount = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))).Round(2)
}
