package models

import (
	"encoding/json"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// InsightRecord is one generated business insight kept for later retrieval.
type InsightRecord struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	InsightText string            `gorm:"column:insight_text;type:text;not null"`
	InsightType enums.InsightType `gorm:"column:insight_type;size:50;not null;index:idx_type_generated,priority:1"`
	GeneratedAt time.Time         `gorm:"column:generated_at;autoCreateTime;not null;index:idx_type_generated,priority:2"`
	Metadata    json.RawMessage   `gorm:"column:insight_metadata;type:jsonb"`
}

// TableName implements the GORM table naming convention.
func (InsightRecord) TableName() string {
	return "insight_history"
}
