package controllers

import (
	"fmt"
	"net/http"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/reports"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

type generateReportRequest struct {
	ReportType string `json:"report_type" validate:"required,oneof=executive detailed product"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	VehicleID  int64  `json:"vehicle_id" validate:"omitempty,min=1"`
}

func (p generateReportRequest) generate(r *http.Request, svc *reports.Service) (reports.Report, error) {
	reportType, err := enums.ParseReportType(p.ReportType)
	if err != nil {
		return reports.Report{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report type")
	}

	start, end, err := bodyDateRange(p.StartDate, p.EndDate)
	if err != nil {
		return reports.Report{}, err
	}

	ctx := r.Context()
	switch reportType {
	case enums.ReportTypeExecutive:
		return svc.GenerateExecutive(ctx, start, end)
	case enums.ReportTypeDetailed:
		return svc.GenerateDetailed(ctx, start, end)
	case enums.ReportTypeProduct:
		if p.VehicleID == 0 {
			return reports.Report{}, pkgerrors.New(pkgerrors.CodeValidation, "vehicle_id required for product reports")
		}
		return svc.GenerateProduct(ctx, p.VehicleID, start, end)
	}
	return reports.Report{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown report type: %s", p.ReportType))
}

// GenerateReport produces a report as structured JSON.
func GenerateReport(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generateReportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := payload.generate(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// GenerateReportMarkdown produces a report rendered as Markdown text.
func GenerateReportMarkdown(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generateReportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := payload.generate(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, reports.ExportMarkdown(report))
	}
}

// GenerateReportHTML produces a report rendered as a standalone HTML page.
func GenerateReportHTML(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload generateReportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := payload.generate(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, reports.ExportHTML(report))
	}
}
