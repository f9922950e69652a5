package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/catalog"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

type vehicleItem struct {
	ID             int64                 `json:"id"`
	VIN            string                `json:"vin"`
	Make           string                `json:"make"`
	Model          string                `json:"model"`
	Year           int                   `json:"year"`
	Category       enums.VehicleCategory `json:"category"`
	Trim           *string               `json:"trim"`
	MSRP           float64               `json:"msrp"`
	Specifications json.RawMessage       `json:"specifications,omitempty"`
}

// ListVehicles serves the vehicle catalog with optional filters.
func ListVehicles(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.ListFilter{
			Make:   validators.QueryString(r, "make"),
			Limit:  limit,
			Offset: skip,
		}
		if raw := validators.QueryString(r, "category"); raw != "" {
			category, err := enums.ParseVehicleCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = category
		}

		vehicles, err := repo.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]vehicleItem, 0, len(vehicles))
		for _, vehicle := range vehicles {
			msrp, _ := vehicle.MSRP.Float64()
			items = append(items, vehicleItem{
				ID:       vehicle.ID,
				VIN:      vehicle.VIN,
				Make:     vehicle.Make,
				Model:    vehicle.Model,
				Year:     vehicle.Year,
				Category: vehicle.Category,
				Trim:     vehicle.Trim,
				MSRP:     msrp,
			})
		}
		responses.WriteSuccess(w, items)
	}
}

// GetVehicle serves a single vehicle, specifications included.
func GetVehicle(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "vehicleID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		vehicle, err := repo.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msrp, _ := vehicle.MSRP.Float64()
		responses.WriteSuccess(w, vehicleItem{
			ID:             vehicle.ID,
			VIN:            vehicle.VIN,
			Make:           vehicle.Make,
			Model:          vehicle.Model,
			Year:           vehicle.Year,
			Category:       vehicle.Category,
			Trim:           vehicle.Trim,
			MSRP:           msrp,
			Specifications: vehicle.Specifications,
		})
	}
}

type saleItem struct {
	ID              int64                 `json:"id"`
	VehicleID       int64                 `json:"vehicle_id"`
	SaleDate        string                `json:"sale_date"`
	Quantity        int                   `json:"quantity"`
	TotalAmount     float64               `json:"total_amount"`
	CustomerSegment enums.CustomerSegment `json:"customer_segment"`
	Region          enums.Region          `json:"region"`
}

// ListSales serves raw sales transactions.
func ListSales(extractor *extract.Extractor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := extract.SalesFilter{}
		if raw := validators.QueryString(r, "region"); raw != "" {
			region, err := enums.ParseRegion(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid region"))
				return
			}
			filter.Region = region
		}

		rows, err := extractor.Sales(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows = window(rows, skip, limit)

		items := make([]saleItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, saleItem{
				ID:              row.ID,
				VehicleID:       row.VehicleID,
				SaleDate:        row.SaleDate.Format("2006-01-02"),
				Quantity:        row.Quantity,
				TotalAmount:     row.TotalAmount,
				CustomerSegment: row.CustomerSegment,
				Region:          row.Region,
			})
		}
		responses.WriteSuccess(w, items)
	}
}

type inventoryItem struct {
	ID                int64             `json:"id"`
	VehicleID         int64             `json:"vehicle_id"`
	WarehouseLocation string            `json:"warehouse_location"`
	Region            enums.Region      `json:"region"`
	QuantityAvailable int               `json:"quantity_available"`
	Status            enums.StockStatus `json:"status"`
}

// ListInventory serves raw inventory records.
func ListInventory(extractor *extract.Extractor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := extract.InventoryFilter{}
		if raw := validators.QueryString(r, "status"); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = status
		}

		rows, err := extractor.Inventory(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows = window(rows, skip, limit)

		items := make([]inventoryItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, inventoryItem{
				ID:                row.ID,
				VehicleID:         row.VehicleID,
				WarehouseLocation: row.WarehouseLocation,
				Region:            row.Region,
				QuantityAvailable: row.QuantityAvailable,
				Status:            row.Status,
			})
		}
		responses.WriteSuccess(w, items)
	}
}

func window[T any](rows []T, skip, limit int) []T {
	if skip >= len(rows) {
		return nil
	}
	rows = rows[skip:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
