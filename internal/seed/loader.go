package seed

import (
	"context"

	"gorm.io/gorm"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

const insertBatchSize = 500

// LoadResult reports how many rows each table received.
type LoadResult struct {
	Vehicles  int `json:"vehicles"`
	Inventory int `json:"inventory"`
	Sales     int `json:"sales"`
}

// Loader generates and persists a synthetic dataset in one transaction.
type Loader struct {
	db   *db.Client
	gen  *Generator
	logg *logger.Logger
}

func NewLoader(client *db.Client, gen *Generator, logg *logger.Logger) *Loader {
	return &Loader{db: client, gen: gen, logg: logg}
}

// Load truncates nothing; it appends generated rows. Vehicle IDs assigned by
// the insert are threaded into the inventory and sales generators so foreign
// keys line up.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}

	err := l.db.WithTx(ctx, func(tx *gorm.DB) error {
		vehicles := l.gen.Vehicles()
		if err := tx.CreateInBatches(&vehicles, insertBatchSize).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "insert vehicles")
		}
		result.Vehicles = len(vehicles)

		inventory := l.gen.Inventory(vehicles)
		if err := tx.CreateInBatches(&inventory, insertBatchSize).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "insert inventory")
		}
		result.Inventory = len(inventory)

		sales := l.gen.Sales(vehicles)
		if err := tx.CreateInBatches(&sales, insertBatchSize).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "insert sales")
		}
		result.Sales = len(sales)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = l.logg.WithFields(ctx, map[string]any{
		"vehicles":  result.Vehicles,
		"inventory": result.Inventory,
		"sales":     result.Sales,
	})
	l.logg.Info(ctx, "synthetic dataset loaded")
	return result, nil
}

// Reset deletes all generated data in dependency order.
func (l *Loader) Reset(ctx context.Context) error {
	return l.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.SaleTransaction{},
			&models.InventoryRecord{},
			&models.InsightRecord{},
			&models.AnalyticsSnapshot{},
			&models.Vehicle{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reset table")
			}
		}
		return nil
	})
}
