package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/insights"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

type generateInsightsRequest struct {
	FocusArea string `json:"focus_area" validate:"omitempty,oneof=sales inventory both"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type generateInsightsResponse struct {
	Insights    []insights.Insight `json:"insights"`
	FocusArea   enums.FocusArea    `json:"focus_area"`
	GeneratedAt string             `json:"generated_at"`
}

// GenerateInsights runs the requested insight generators and returns the
// combined results.
func GenerateInsights(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generateInsightsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		focus := enums.FocusAreaBoth
		if payload.FocusArea != "" {
			var err error
			focus, err = enums.ParseFocusArea(payload.FocusArea)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid focus area"))
				return
			}
		}

		start, end, err := bodyDateRange(payload.StartDate, payload.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		var results []insights.Insight

		if focus == enums.FocusAreaSales || focus == enums.FocusAreaBoth {
			salesInsights, err := svc.GenerateSalesInsights(ctx, start, end)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			results = append(results, salesInsights...)
		}
		if focus == enums.FocusAreaInventory || focus == enums.FocusAreaBoth {
			inventoryInsights, err := svc.GenerateInventoryInsights(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			results = append(results, inventoryInsights...)
		}
		if results == nil {
			results = []insights.Insight{}
		}

		responses.WriteSuccess(w, generateInsightsResponse{
			Insights:    results,
			FocusArea:   focus,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// InsightAnomalies detects anomalies and returns the model's explanation.
func InsightAnomalies(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analysis, err := svc.AnalyzeAnomalies(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analysis)
	}
}

// InsightTrends analyzes recent sales trends with the model.
func InsightTrends(svc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AnalyzeTrends(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type insightHistoryItem struct {
	ID          int64             `json:"id"`
	Text        string            `json:"text"`
	Type        enums.InsightType `json:"type"`
	GeneratedAt string            `json:"generated_at"`
	Metadata    json.RawMessage   `json:"metadata,omitempty"`
}

// InsightHistory lists previously generated insights, newest first.
func InsightHistory(repo *insights.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := repo.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]insightHistoryItem, 0, len(records))
		for _, record := range records {
			items = append(items, insightHistoryItem{
				ID:          record.ID,
				Text:        record.InsightText,
				Type:        record.InsightType,
				GeneratedAt: record.GeneratedAt.UTC().Format(time.RFC3339),
				Metadata:    record.Metadata,
			})
		}
		responses.WriteSuccess(w, items)
	}
}

func bodyDateRange(startRaw, endRaw string) (start, end time.Time, err error) {
	if startRaw != "" {
		start, err = time.Parse("2006-01-02", startRaw)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start_date")
			return
		}
	}
	if endRaw != "" {
		end, err = time.Parse("2006-01-02", endRaw)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end_date")
		}
	}
	return
}
