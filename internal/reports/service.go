// Package reports generates LLM-written business reports over the analytics
// data and exports them to markdown or HTML.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/internal/catalog"
	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/internal/prompts"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/llm"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// Report is one generated document plus the data behind it.
type Report struct {
	Type        enums.ReportType `json:"report_type"`
	Title       string           `json:"report_title"`
	GeneratedAt time.Time        `json:"generated_at"`
	PeriodStart string           `json:"period_start,omitempty"`
	PeriodEnd   string           `json:"period_end,omitempty"`
	VehicleID   int64            `json:"vehicle_id,omitempty"`
	Content     string           `json:"content"`
	Data        map[string]any   `json:"data,omitempty"`
}

// Service generates reports.
type Service struct {
	llm       llm.Client
	sales     *analytics.SalesAnalytics
	inventory *analytics.InventoryAnalytics
	kpis      *analytics.KPICalculator
	vehicles  *catalog.Repository
	source    analytics.DataSource
	logg      *logger.Logger

	now func() time.Time
}

func NewService(llmClient llm.Client, sales *analytics.SalesAnalytics, inventory *analytics.InventoryAnalytics, kpis *analytics.KPICalculator, vehicles *catalog.Repository, source analytics.DataSource, logg *logger.Logger) *Service {
	return &Service{
		llm:       llmClient,
		sales:     sales,
		inventory: inventory,
		kpis:      kpis,
		vehicles:  vehicles,
		source:    source,
		logg:      logg,
		now:       time.Now,
	}
}

// GenerateExecutive produces the executive summary for the period.
func (s *Service) GenerateExecutive(ctx context.Context, startDate, endDate time.Time) (Report, error) {
	kpis, err := s.kpis.CalculateAll(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	topVehicles, err := s.sales.TopSellingVehicles(ctx, 5, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	regional, err := s.sales.RegionalPerformance(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	if len(regional) > 3 {
		regional = regional[:3]
	}

	dataSummary := fmt.Sprintf(`
Key Performance Indicators:
- Total Revenue: $%.2f
- Total Units Sold: %d
- Average Transaction Value: $%.2f
- Inventory Value: $%.2f
- Inventory Turnover Rate: %.2f

Top 5 Selling Vehicles:
%s

Regional Performance:
%s

Period: %s to %s (%d days)
`, kpis.TotalRevenue, kpis.TotalUnitsSold, kpis.AvgTransactionValue,
		kpis.TotalInventoryValue, kpis.InventoryTurnoverRate,
		mustJSON(topVehicles), mustJSON(regional),
		kpis.PeriodStart, kpis.PeriodEnd, kpis.PeriodDays)

	period := fmt.Sprintf("%s to %s", kpis.PeriodStart, kpis.PeriodEnd)
	content, err := llm.StructuredCompletion(ctx, s.llm, prompts.ReportGeneratorSystem,
		prompts.ReportGeneration("executive", dataSummary, period),
		llm.Options{Temperature: llm.Temp(0.5), Operation: "executive_report"})
	if err != nil {
		return Report{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "executive report generation failed")
	}

	s.logg.Info(ctx, "executive report generated")
	return Report{
		Type:        enums.ReportTypeExecutive,
		Title:       "Executive Summary - " + period,
		GeneratedAt: s.now().UTC(),
		PeriodStart: kpis.PeriodStart,
		PeriodEnd:   kpis.PeriodEnd,
		Content:     content,
		Data:        map[string]any{"kpis": kpis},
	}, nil
}

// GenerateDetailed produces the full performance report for the period.
func (s *Service) GenerateDetailed(ctx context.Context, startDate, endDate time.Time) (Report, error) {
	kpis, err := s.kpis.CalculateAll(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	salesSummary, err := s.sales.Summary(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	inventorySummary, err := s.inventory.Summary(ctx)
	if err != nil {
		return Report{}, err
	}
	regional, err := s.sales.RegionalPerformance(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	categories, err := s.sales.CategoryBreakdown(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	segments, err := s.sales.SegmentAnalysis(ctx, startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	topVehicles, err := s.sales.TopSellingVehicles(ctx, 10, startDate, endDate)
	if err != nil {
		return Report{}, err
	}

	dataSummary := fmt.Sprintf(`
Complete Performance Data:

Sales Performance:
%s

Inventory Status:
%s

Regional Performance:
%s

Category Breakdown:
%s

Customer Segment Analysis:
%s

Top 10 Vehicles:
%s

Key Performance Indicators:
%s
`, mustJSON(salesSummary), mustJSON(inventorySummary), mustJSON(regional),
		mustJSON(categories), mustJSON(segments), mustJSON(topVehicles), mustJSON(kpis))

	period := fmt.Sprintf("%s to %s", kpis.PeriodStart, kpis.PeriodEnd)
	content, err := llm.StructuredCompletion(ctx, s.llm, prompts.ReportGeneratorSystem,
		prompts.ReportGeneration("detailed", dataSummary, period),
		llm.Options{Temperature: llm.Temp(0.5), Operation: "detailed_report"})
	if err != nil {
		return Report{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "detailed report generation failed")
	}

	s.logg.Info(ctx, "detailed report generated")
	return Report{
		Type:        enums.ReportTypeDetailed,
		Title:       "Detailed Performance Report - " + period,
		GeneratedAt: s.now().UTC(),
		PeriodStart: kpis.PeriodStart,
		PeriodEnd:   kpis.PeriodEnd,
		Content:     content,
		Data: map[string]any{
			"kpis":      kpis,
			"sales":     salesSummary,
			"inventory": inventorySummary,
		},
	}, nil
}

// GenerateProduct produces a report for one vehicle's sales history.
func (s *Service) GenerateProduct(ctx context.Context, vehicleID int64, startDate, endDate time.Time) (Report, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return Report{}, err
	}
	sales, err := s.source.Sales(ctx, extract.SalesFilter{
		VehicleID: vehicleID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return Report{}, err
	}

	var totalUnits int
	var totalRevenue float64
	for _, sale := range sales {
		totalUnits += sale.Quantity
		totalRevenue += sale.TotalAmount
	}
	var avgSalePrice float64
	if totalUnits > 0 {
		avgSalePrice = totalRevenue / float64(totalUnits)
	}

	dataSummary := fmt.Sprintf(`
Product Information:
- Make: %s
- Model: %s
- Year: %d
- Category: %s
- MSRP: $%.2f

Sales Performance:
- Total Units Sold: %d
- Total Revenue: $%.2f
- Number of Transactions: %d
- Average Sale Price: $%.2f
`, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Category,
		vehicle.MSRP.InexactFloat64(), totalUnits, totalRevenue, len(sales), avgSalePrice)

	prompt := fmt.Sprintf(`Create a product performance report for %s %s:

%s

Analyze the product's performance, market position, and provide recommendations.`,
		vehicle.Make, vehicle.Model, dataSummary)

	content, err := llm.StructuredCompletion(ctx, s.llm, prompts.ReportGeneratorSystem, prompt,
		llm.Options{Temperature: llm.Temp(0.5), Operation: "product_report"})
	if err != nil {
		return Report{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "product report generation failed")
	}

	report := Report{
		Type:        enums.ReportTypeProduct,
		Title:       fmt.Sprintf("Product Report - %s %s", vehicle.Make, vehicle.Model),
		GeneratedAt: s.now().UTC(),
		VehicleID:   vehicleID,
		Content:     content,
	}
	if !startDate.IsZero() {
		report.PeriodStart = startDate.Format("2006-01-02")
	}
	if !endDate.IsZero() {
		report.PeriodEnd = endDate.Format("2006-01-02")
	}
	s.logg.Info(s.logg.WithField(ctx, "vehicle_id", vehicleID), "product report generated")
	return report, nil
}

// ExportMarkdown renders the report as a markdown document.
func ExportMarkdown(report Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format(time.RFC3339))
	if report.PeriodStart != "" {
		fmt.Fprintf(&b, "**Period:** %s to %s\n\n", report.PeriodStart, report.PeriodEnd)
	}
	b.WriteString("---\n\n")
	b.WriteString(report.Content)
	return b.String()
}

// ExportHTML renders the report as a standalone HTML page. Content paragraphs
// are split on blank lines.
func ExportHTML(report Report) string {
	content := strings.ReplaceAll(report.Content, "\n\n", "</p><p>")
	content = strings.ReplaceAll(content, "\n", "<br>")

	var period string
	if report.PeriodStart != "" {
		period = fmt.Sprintf("<p>Period: %s to %s</p>", report.PeriodStart, report.PeriodEnd)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 1000px; margin: 40px auto; padding: 20px; }
        h1 { color: #333; }
        .meta { color: #666; font-size: 14px; }
        p { line-height: 1.6; }
    </style>
</head>
<body>
    <h1>%s</h1>
    <div class="meta">
        <p>Generated: %s</p>
        %s
    </div>
    <hr>
    <p>%s</p>
</body>
</html>
`, report.Title, report.Title, report.GeneratedAt.Format(time.RFC3339), period, content)
}

func mustJSON(value any) string {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}
