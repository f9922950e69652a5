package controllers

import (
	"net/http"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/pipeline"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// RunFullPipeline executes the sales and inventory pipelines back to back.
func RunFullPipeline(mgr *pipeline.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysBack, err := validators.ParseQueryInt(r, "days_back", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := mgr.RunFull(r.Context(), daysBack)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RunSalesPipeline executes only the sales aggregation pipeline.
func RunSalesPipeline(mgr *pipeline.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := mgr.RunSales(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RunInventoryPipeline executes only the inventory snapshot pipeline.
func RunInventoryPipeline(mgr *pipeline.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := mgr.RunInventory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LatestSnapshot serves the most recent snapshot for a metric type.
func LatestSnapshot(repo *pipeline.SnapshotRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricType, err := enums.ParseMetricType(validators.QueryString(r, "metric_type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metric type"))
			return
		}

		snapshot, err := repo.Latest(r.Context(), metricType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
