// Package nlquery translates natural language questions into read-only SQL,
// executes them, and narrates the results.
package nlquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/prompts"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/llm"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// schemaContext is the compact schema the model sees alongside the question.
const schemaContext = `
Tables:
- vehicles: id, vin, make, model, year, category, trim, msrp
- inventory: id, vehicle_id, warehouse_location, region, quantity_available, status
- sales: id, vehicle_id, sale_date, quantity, unit_price, total_amount, customer_segment, region

Common queries:
- Top selling vehicles: JOIN sales with vehicles, GROUP BY vehicle_id, ORDER BY SUM(quantity)
- Sales by region: GROUP BY region FROM sales
- Inventory status: SELECT from inventory WHERE status='low'
`

// Result is the full outcome of one question. Error is set when Success is
// false; SQL may still carry the generated statement for debugging.
type Result struct {
	Success     bool             `json:"success"`
	Question    string           `json:"question"`
	SQL         string           `json:"sql,omitempty"`
	Rows        []map[string]any `json:"results,omitempty"`
	RowCount    int              `json:"row_count"`
	Explanation string           `json:"explanation,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Service answers questions over the analytics database.
type Service struct {
	llm  llm.Client
	db   *db.Client
	logg *logger.Logger
}

func NewService(llmClient llm.Client, dbClient *db.Client, logg *logger.Logger) *Service {
	return &Service{llm: llmClient, db: dbClient, logg: logg}
}

// ProcessQuery runs the full pipeline: generate SQL, validate it is read-only,
// execute, and explain. Failures come back in the Result instead of an error
// so callers can always show the user something.
func (s *Service) ProcessQuery(ctx context.Context, question string) Result {
	s.logg.Info(s.logg.WithField(ctx, "question", question), "processing natural language query")

	sql, err := s.generateSQL(ctx, question)
	if err != nil {
		s.logg.Error(ctx, "sql generation failed", err)
		return Result{
			Success:  false,
			Question: question,
			Error:    fmt.Sprintf("AI service error: %v. Please verify your OpenAI API key is valid and has sufficient credits.", err),
		}
	}
	if sql == "" {
		return Result{Success: false, Question: question, Error: "Could not generate SQL query"}
	}
	if !IsSafeQuery(sql) {
		return Result{
			Success:  false,
			Question: question,
			Error:    "Query validation failed - only SELECT queries are allowed",
		}
	}

	rows, err := s.executeQuery(ctx, sql)
	if err != nil {
		s.logg.Error(ctx, "query execution failed", err)
		return Result{
			Success:  false,
			Question: question,
			SQL:      sql,
			Error:    fmt.Sprintf("Query processing error: %v", err),
		}
	}

	formatted := FormatRows(rows)
	explanation := s.explainResults(ctx, question, formatted)

	s.logg.Info(s.logg.WithField(ctx, "rows", len(rows)), "natural language query processed")
	return Result{
		Success:     true,
		Question:    question,
		SQL:         sql,
		Rows:        formatted,
		RowCount:    len(rows),
		Explanation: explanation,
	}
}

func (s *Service) generateSQL(ctx context.Context, question string) (string, error) {
	response, err := llm.StructuredCompletion(ctx, s.llm, prompts.SQLGeneratorSystem,
		prompts.NLQuery(question, schemaContext),
		llm.Options{Temperature: llm.Temp(0.3), Operation: "nl_query"})
	if err != nil {
		return "", err
	}
	return ExtractSQL(response), nil
}

// ExtractSQL pulls the SELECT statement out of a model response, stripping
// markdown fences and leading prose. Returns empty when no SELECT is found.
func ExtractSQL(response string) string {
	response = strings.ReplaceAll(response, "```sql", "")
	response = strings.ReplaceAll(response, "```", "")

	var sqlLines []string
	inQuery := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), "SELECT") {
			inQuery = true
		}
		if inQuery {
			sqlLines = append(sqlLines, line)
			if strings.HasSuffix(line, ";") {
				break
			}
		}
	}
	return strings.TrimSpace(strings.Join(sqlLines, " "))
}

var writeKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE", "EXEC", "EXECUTE",
}

// IsSafeQuery reports whether the statement is a plain SELECT with no write
// keywords anywhere in it.
func IsSafeQuery(sql string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	if !strings.HasPrefix(upper, "SELECT") {
		return false
	}
	for _, keyword := range writeKeywords {
		if strings.Contains(upper, keyword) {
			return false
		}
	}
	return true
}

func (s *Service) executeQuery(ctx context.Context, sql string) ([]map[string]any, error) {
	var rows []map[string]any
	if err := s.db.Raw(ctx, sql).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "raw query failed")
	}
	return rows, nil
}

// FormatRows converts driver-specific values into JSON-friendly ones: dates
// to ISO strings, decimals to floats.
func FormatRows(rows []map[string]any) []map[string]any {
	formatted := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]any, len(row))
		for key, value := range row {
			switch v := value.(type) {
			case time.Time:
				out[key] = v.Format(time.RFC3339)
			case decimal.Decimal:
				out[key] = v.InexactFloat64()
			case []byte:
				out[key] = string(v)
			default:
				out[key] = value
			}
		}
		formatted = append(formatted, out)
	}
	return formatted
}

// explainResults narrates the result set, previewing at most ten rows. An
// explanation failure never fails the query.
func (s *Service) explainResults(ctx context.Context, question string, rows []map[string]any) string {
	preview := rows
	if len(rows) > 10 {
		preview = rows[:10]
	}
	raw, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		return "Results retrieved successfully."
	}
	data := string(raw)
	if len(rows) > 10 {
		data += fmt.Sprintf("\n... and %d more rows", len(rows)-10)
	}

	explanation, err := llm.StructuredCompletion(ctx, s.llm, prompts.SQLGeneratorSystem,
		prompts.DataExplanation(data, question),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "nl_query_explain"})
	if err != nil {
		s.logg.Warn(ctx, "explanation generation failed")
		return "Results retrieved successfully."
	}
	return explanation
}
