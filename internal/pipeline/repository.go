package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/retryx"
	"gorm.io/gorm"
)

// SnapshotRepository persists aggregated metric snapshots. Writes retry
// under the configured backoff policy since a lost snapshot fails the whole
// pipeline run.
type SnapshotRepository struct {
	db     *db.Client
	policy retryx.Policy
}

func NewSnapshotRepository(client *db.Client, policy retryx.Policy) *SnapshotRepository {
	return &SnapshotRepository{db: client, policy: policy}
}

// Save stores one snapshot. data is marshaled as the metric payload.
func (r *SnapshotRepository) Save(ctx context.Context, metricType enums.MetricType, data any, snapshotDate time.Time) (*models.AnalyticsSnapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal snapshot data")
	}
	snapshot := &models.AnalyticsSnapshot{
		SnapshotDate: snapshotDate,
		MetricType:   metricType,
		MetricData:   raw,
	}
	err = r.policy.Do(ctx, func(ctx context.Context) error {
		if err := r.db.DB().WithContext(ctx).Create(snapshot).Error; err != nil {
			return retryx.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create analytics snapshot")
	}
	return snapshot, nil
}

// Latest returns the newest snapshot of the given type.
func (r *SnapshotRepository) Latest(ctx context.Context, metricType enums.MetricType) (*models.AnalyticsSnapshot, error) {
	var snapshot models.AnalyticsSnapshot
	err := r.db.DB().WithContext(ctx).
		Where("metric_type = ?", metricType).
		Order("snapshot_date DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no snapshot for metric type")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load latest snapshot")
	}
	return &snapshot, nil
}

// List returns the newest snapshots of the given type.
func (r *SnapshotRepository) List(ctx context.Context, metricType enums.MetricType, limit int) ([]models.AnalyticsSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var snapshots []models.AnalyticsSnapshot
	err := r.db.DB().WithContext(ctx).
		Where("metric_type = ?", metricType).
		Order("snapshot_date DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list snapshots")
	}
	return snapshots, nil
}
