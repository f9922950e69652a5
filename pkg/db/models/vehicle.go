package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// Vehicle represents one entry in the automotive catalog.
type Vehicle struct {
	ID             int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	VIN            string                `gorm:"column:vin;size:17;uniqueIndex;not null"`
	Make           string                `gorm:"column:make;size:50;not null;index:idx_make_model,priority:1"`
	Model          string                `gorm:"column:model;size:100;not null;index:idx_make_model,priority:2"`
	Year           int                   `gorm:"column:year;not null;index:idx_category_year,priority:2"`
	Category       enums.VehicleCategory `gorm:"column:category;size:50;not null;index:idx_category_year,priority:1"`
	Trim           *string               `gorm:"column:trim;size:100"`
	MSRP           decimal.Decimal       `gorm:"column:msrp;type:numeric(10,2);not null"`
	Specifications json.RawMessage       `gorm:"column:specifications;type:jsonb"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime;not null"`
}

// TableName implements the GORM table naming convention.
func (Vehicle) TableName() string {
	return "vehicles"
}
