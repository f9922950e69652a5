// Package catalog provides access to the vehicle catalog.
package catalog

import (
	"context"
	"errors"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"gorm.io/gorm"
)

// ListFilter narrows and pages catalog listings.
type ListFilter struct {
	Category enums.VehicleCategory
	Make     string
	Year     int
	Limit    int
	Offset   int
}

// Repository reads and writes vehicle records.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

// GetByID returns the vehicle or a not-found error.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.DB().WithContext(ctx).First(&vehicle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "get vehicle")
	}
	return &vehicle, nil
}

// GetByVIN returns the vehicle with the given VIN or a not-found error.
func (r *Repository) GetByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.DB().WithContext(ctx).Where("vin = ?", vin).First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "get vehicle by vin")
	}
	return &vehicle, nil
}

// List returns vehicles matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Vehicle, error) {
	query := r.db.DB().WithContext(ctx).Model(&models.Vehicle{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Make != "" {
		query = query.Where("make = ?", filter.Make)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var vehicles []models.Vehicle
	err := query.Order("id DESC").Limit(limit).Offset(filter.Offset).Find(&vehicles).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list vehicles")
	}
	return vehicles, nil
}

// Create inserts a vehicle. A duplicate VIN maps to a validation error.
func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if err := r.db.DB().WithContext(ctx).Create(vehicle).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeValidation, "vehicle with this VIN already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create vehicle")
	}
	return nil
}
