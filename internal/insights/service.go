// Package insights turns analytics output into LLM-generated business
// insights and keeps a history of them.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/aggregate"
	"github.com/autovista-ai/autovista-backend/internal/analytics"
	"github.com/autovista-ai/autovista-backend/internal/prompts"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/llm"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// Insight is one parsed model statement.
type Insight struct {
	Text string            `json:"text"`
	Type enums.InsightType `json:"type"`
}

// AnomalyAnalysis pairs detected anomalies with the model's explanation.
type AnomalyAnalysis struct {
	Anomalies   []analytics.Anomaly `json:"anomalies"`
	Explanation string              `json:"explanation"`
}

// TrendAnalysisResult pairs trend series with the model's reading of them.
type TrendAnalysisResult struct {
	Trends        []aggregate.PeriodBucket       `json:"trends"`
	MovingAverage []analytics.MovingAveragePoint `json:"moving_average"`
	Analysis      string                         `json:"analysis"`
}

// Service generates and stores insights.
type Service struct {
	llm       llm.Client
	sales     *analytics.SalesAnalytics
	inventory *analytics.InventoryAnalytics
	trends    *analytics.TrendAnalyzer
	repo      *Repository
	logg      *logger.Logger
}

func NewService(llmClient llm.Client, sales *analytics.SalesAnalytics, inventory *analytics.InventoryAnalytics, trends *analytics.TrendAnalyzer, repo *Repository, logg *logger.Logger) *Service {
	return &Service{
		llm:       llmClient,
		sales:     sales,
		inventory: inventory,
		trends:    trends,
		repo:      repo,
		logg:      logg,
	}
}

// GenerateSalesInsights summarizes the sales picture for the period and asks
// the analyst persona for insights. Each parsed insight is persisted.
func (s *Service) GenerateSalesInsights(ctx context.Context, startDate, endDate time.Time) ([]Insight, error) {
	summary, err := s.sales.Summary(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	regional, err := s.sales.RegionalPerformance(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(regional) > 5 {
		regional = regional[:5]
	}
	topVehicles, err := s.sales.TopSellingVehicles(ctx, 5, startDate, endDate)
	if err != nil {
		return nil, err
	}
	categories, err := s.sales.CategoryBreakdown(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	dataSummary := fmt.Sprintf(`
Sales Summary:
- Total Revenue: $%.2f
- Total Units Sold: %d
- Total Transactions: %d
- Average Transaction Value: $%.2f
- Average Discount: %.2f%%

Regional Performance:
%s

Top Selling Vehicles:
%s

Category Breakdown:
%s
`, summary.TotalRevenue, summary.TotalUnits, summary.TotalTransactions,
		summary.AvgTransactionValue, summary.AvgDiscount,
		mustJSON(regional), mustJSON(topVehicles), mustJSON(categories))

	response, err := llm.StructuredCompletion(ctx, s.llm, prompts.AnalystSystem,
		prompts.InsightsGeneration(dataSummary, "sales"),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "sales_insights"})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "sales insights generation failed")
	}

	insights := ParseInsightList(response, enums.InsightTypeSalesTrend)
	s.persist(ctx, insights, nil)
	s.logg.Info(s.logg.WithField(ctx, "count", len(insights)), "generated sales insights")
	return insights, nil
}

// GenerateInventoryInsights does the same for the current stock picture.
func (s *Service) GenerateInventoryInsights(ctx context.Context) ([]Insight, error) {
	summary, err := s.inventory.Summary(ctx)
	if err != nil {
		return nil, err
	}
	byRegion, err := s.inventory.ByRegion(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.inventory.ByCategory(ctx)
	if err != nil {
		return nil, err
	}

	dataSummary := fmt.Sprintf(`
Inventory Summary:
- Total Units: %d
- Total Value: $%.2f
- Unique Vehicles: %d
- Low Stock Items: %d
- Out of Stock Items: %d

Regional Distribution:
%s

Category Distribution:
%s

Low Stock Alerts: %d items
`, summary.TotalUnits, summary.TotalValue, summary.UniqueVehicles,
		summary.LowStockCount, summary.OutOfStockCount,
		mustJSON(byRegion), mustJSON(byCategory), summary.LowStockCount)

	response, err := llm.StructuredCompletion(ctx, s.llm, prompts.AnalystSystem,
		prompts.InsightsGeneration(dataSummary, "inventory"),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "inventory_insights"})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "inventory insights generation failed")
	}

	insights := ParseInsightList(response, enums.InsightTypeInventoryStatus)
	s.persist(ctx, insights, nil)
	s.logg.Info(s.logg.WithField(ctx, "count", len(insights)), "generated inventory insights")
	return insights, nil
}

// AnalyzeAnomalies explains any detected revenue anomalies. With nothing
// detected the explanation says so and no LLM call is made.
func (s *Service) AnalyzeAnomalies(ctx context.Context, startDate, endDate time.Time) (AnomalyAnalysis, error) {
	anomalies, err := s.trends.DetectAnomalies(ctx, startDate, endDate)
	if err != nil {
		return AnomalyAnalysis{}, err
	}
	if len(anomalies) == 0 {
		return AnomalyAnalysis{Anomalies: []analytics.Anomaly{}, Explanation: "No significant anomalies detected."}, nil
	}

	explanation, err := llm.StructuredCompletion(ctx, s.llm, prompts.AnalystSystem,
		prompts.AnomalyExplanation(mustJSON(anomalies)),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "anomaly_analysis"})
	if err != nil {
		return AnomalyAnalysis{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "anomaly explanation failed")
	}

	if _, err := s.repo.Create(ctx, explanation, enums.InsightTypeAnomaly, map[string]any{"anomaly_count": len(anomalies)}); err != nil {
		s.logg.Error(ctx, "failed to store anomaly insight", err)
	}
	return AnomalyAnalysis{Anomalies: anomalies, Explanation: explanation}, nil
}

// AnalyzeTrends reads weekly trends and the 7-day moving average.
func (s *Service) AnalyzeTrends(ctx context.Context, startDate, endDate time.Time) (TrendAnalysisResult, error) {
	trends, err := s.sales.Trends(ctx, startDate, endDate, enums.PeriodWeekly)
	if err != nil {
		return TrendAnalysisResult{}, err
	}
	movingAvg, err := s.trends.MovingAverage(ctx, startDate, endDate)
	if err != nil {
		return TrendAnalysisResult{}, err
	}

	trendPreview := trends
	if len(trendPreview) > 10 {
		trendPreview = trendPreview[:10]
	}
	avgPreview := movingAvg
	if len(avgPreview) > 10 {
		avgPreview = avgPreview[len(avgPreview)-10:]
	}
	trendSummary := fmt.Sprintf(`
Weekly Sales Trends:
%s

7-Day Moving Average:
%s
`, mustJSON(trendPreview), mustJSON(avgPreview))

	analysis, err := llm.StructuredCompletion(ctx, s.llm, prompts.AnalystSystem,
		prompts.TrendAnalysis(trendSummary),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "trend_analysis"})
	if err != nil {
		return TrendAnalysisResult{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "trend analysis failed")
	}

	if _, err := s.repo.Create(ctx, analysis, enums.InsightTypeTrendAnalysis, nil); err != nil {
		s.logg.Error(ctx, "failed to store trend insight", err)
	}
	return TrendAnalysisResult{Trends: trends, MovingAverage: movingAvg, Analysis: analysis}, nil
}

// Recent returns the newest stored insights.
func (s *Service) Recent(ctx context.Context, limit int) ([]Insight, error) {
	records, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Insight, 0, len(records))
	for _, record := range records {
		out = append(out, Insight{Text: record.InsightText, Type: record.InsightType})
	}
	return out, nil
}

// ParseInsightList splits a numbered-list model response into insights.
// Continuation lines are appended to the current item; a response with no
// numbered items becomes a single insight.
func ParseInsightList(response string, insightType enums.InsightType) []Insight {
	var insights []Insight
	var current *Insight

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			if current != nil {
				insights = append(insights, *current)
			}
			current = &Insight{Text: strings.TrimSpace(line[2:]), Type: insightType}
			continue
		}
		if current != nil {
			current.Text += " " + line
		}
	}
	if current != nil {
		insights = append(insights, *current)
	}
	if len(insights) == 0 && strings.TrimSpace(response) != "" {
		insights = []Insight{{Text: response, Type: insightType}}
	}
	return insights
}

func (s *Service) persist(ctx context.Context, insights []Insight, metadata map[string]any) {
	for _, insight := range insights {
		if _, err := s.repo.Create(ctx, insight.Text, insight.Type, metadata); err != nil {
			s.logg.Error(ctx, "failed to store insight", err)
		}
	}
}

func mustJSON(value any) string {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}
