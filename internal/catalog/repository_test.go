package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db.FromGorm(conn)
}

func vehicle(vin string, category enums.VehicleCategory, year int) *models.Vehicle {
	return &models.Vehicle{
		VIN:      vin,
		Make:     "Toyota",
		Model:    "Camry",
		Year:     year,
		Category: category,
		MSRP:     decimal.NewFromInt(30000),
	}
}

func TestGetByIDAndVIN(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created := vehicle("1HGBH41JXMN109186", enums.VehicleCategorySedan, 2026)
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.VIN != created.VIN {
		t.Fatalf("unexpected vehicle %+v", byID)
	}

	byVIN, err := repo.GetByVIN(ctx, created.VIN)
	if err != nil {
		t.Fatalf("get by vin: %v", err)
	}
	if byVIN.ID != created.ID {
		t.Fatalf("unexpected vehicle %+v", byVIN)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.GetByID(context.Background(), 9999)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateDuplicateVIN(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, vehicle("1HGBH41JXMN109186", enums.VehicleCategorySedan, 2026)); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, vehicle("1HGBH41JXMN109186", enums.VehicleCategorySUV, 2025))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	for i, category := range []enums.VehicleCategory{
		enums.VehicleCategorySedan, enums.VehicleCategorySUV, enums.VehicleCategorySedan,
	} {
		v := vehicle(fmt.Sprintf("1HGBH41JXMN10918%d", i), category, 2024+i)
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	sedans, err := repo.List(ctx, ListFilter{Category: enums.VehicleCategorySedan})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sedans) != 2 {
		t.Fatalf("expected 2 sedans, got %d", len(sedans))
	}
	if sedans[0].ID < sedans[1].ID {
		t.Fatal("expected newest first")
	}

	limited, err := repo.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(limited))
	}
}
