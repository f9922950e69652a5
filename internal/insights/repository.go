package insights

import (
	"context"
	"encoding/json"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
)

// Repository persists and reads generated insights.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

// Create stores one insight. metadata may be nil.
func (r *Repository) Create(ctx context.Context, text string, insightType enums.InsightType, metadata map[string]any) (*models.InsightRecord, error) {
	record := &models.InsightRecord{
		InsightText: text,
		InsightType: insightType,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal insight metadata")
		}
		record.Metadata = raw
	}
	if err := r.db.DB().WithContext(ctx).Create(record).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create insight")
	}
	return record, nil
}

// Recent returns the newest insights, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.InsightRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.InsightRecord
	err := r.db.DB().WithContext(ctx).
		Order("generated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list recent insights")
	}
	return records, nil
}

// ListByType returns the newest insights of one type.
func (r *Repository) ListByType(ctx context.Context, insightType enums.InsightType, limit int) ([]models.InsightRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.InsightRecord
	err := r.db.DB().WithContext(ctx).
		Where("insight_type = ?", insightType).
		Order("generated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list insights by type")
	}
	return records, nil
}
