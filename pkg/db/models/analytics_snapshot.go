package models

import (
	"encoding/json"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// AnalyticsSnapshot stores one pre-computed aggregation as a JSON document.
type AnalyticsSnapshot struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	SnapshotDate time.Time        `gorm:"column:snapshot_date;not null;index:idx_snapshot_date_type,priority:1"`
	MetricType   enums.MetricType `gorm:"column:metric_type;size:100;not null;index:idx_snapshot_date_type,priority:2"`
	MetricData   json.RawMessage  `gorm:"column:metric_data;type:jsonb;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime;not null"`
}

// TableName implements the GORM table naming convention.
func (AnalyticsSnapshot) TableName() string {
	return "analytics_snapshots"
}
