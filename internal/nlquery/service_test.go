package nlquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/autovista-ai/autovista-backend/pkg/db"
	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	"github.com/autovista-ai/autovista-backend/pkg/llm/llmtest"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
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

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
}

func seedVehicle(t *testing.T, client *db.Client, vin, carMake string) {
	t.Helper()
	vehicle := &models.Vehicle{
		VIN:      vin,
		Make:     carMake,
		Model:    "Camry",
		Year:     2026,
		Category: enums.VehicleCategorySedan,
		MSRP:     decimal.NewFromInt(30000),
	}
	if err := client.DB().Create(vehicle).Error; err != nil {
		t.Fatalf("failed to seed vehicle: %v", err)
	}
}

func TestExtractSQL(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "fenced block",
			response: "Here is the query:\n```sql\nSELECT * FROM sales;\n```",
			want:     "SELECT * FROM sales;",
		},
		{
			name:     "bare statement",
			response: "SELECT make, model FROM vehicles",
			want:     "SELECT make, model FROM vehicles",
		},
		{
			name:     "multiline with prose",
			response: "This should work:\nSELECT region,\n  SUM(total_amount)\nFROM sales\nGROUP BY region;\nLet me know.",
			want:     "SELECT region, SUM(total_amount) FROM sales GROUP BY region;",
		},
		{
			name:     "no select",
			response: "I cannot answer that with the available data.",
			want:     "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractSQL(tc.response); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsSafeQuery(t *testing.T) {
	cases := []struct {
		sql  string
		safe bool
	}{
		{"SELECT * FROM sales", true},
		{"select id from vehicles;", true},
		{"DELETE FROM sales", false},
		{"SELECT * FROM sales; DROP TABLE sales", false},
		{"INSERT INTO sales VALUES (1)", false},
		{"  SELECT 1", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
	}
	for _, tc := range cases {
		if got := IsSafeQuery(tc.sql); got != tc.safe {
			t.Fatalf("IsSafeQuery(%q) = %v, want %v", tc.sql, got, tc.safe)
		}
	}
}

func TestFormatRows(t *testing.T) {
	when := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []map[string]any{{
		"sale_date": when,
		"amount":    decimal.NewFromFloat(199.99),
		"make":      []byte("Toyota"),
		"quantity":  3,
	}}

	formatted := FormatRows(rows)
	if formatted[0]["sale_date"] != "2026-03-01T00:00:00Z" {
		t.Fatalf("unexpected date %v", formatted[0]["sale_date"])
	}
	if formatted[0]["amount"] != 199.99 {
		t.Fatalf("unexpected amount %v", formatted[0]["amount"])
	}
	if formatted[0]["make"] != "Toyota" {
		t.Fatalf("unexpected make %v", formatted[0]["make"])
	}
	if formatted[0]["quantity"] != 3 {
		t.Fatalf("unexpected quantity %v", formatted[0]["quantity"])
	}
}

func TestProcessQueryEndToEnd(t *testing.T) {
	client := openTestDB(t)
	seedVehicle(t, client, "1HGBH41JXMN109186", "Toyota")
	seedVehicle(t, client, "1HGBH41JXMN109187", "Honda")

	fake := &llmtest.Fake{Responses: []string{
		"```sql\nSELECT make FROM vehicles ORDER BY make;\n```",
		"- Two makes are stocked",
	}}
	service := NewService(fake, client, testLogger())

	result := service.ProcessQuery(context.Background(), "what makes do we carry?")
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.RowCount != 2 {
		t.Fatalf("expected 2 rows, got %d", result.RowCount)
	}
	if result.SQL != "SELECT make FROM vehicles ORDER BY make;" {
		t.Fatalf("unexpected sql %q", result.SQL)
	}
	if result.Explanation != "- Two makes are stocked" {
		t.Fatalf("unexpected explanation %q", result.Explanation)
	}
	if result.Rows[0]["make"] != "Honda" {
		t.Fatalf("unexpected first row %+v", result.Rows[0])
	}
}

func TestProcessQueryRejectsWrites(t *testing.T) {
	client := openTestDB(t)
	seedVehicle(t, client, "1HGBH41JXMN109186", "Toyota")

	executed := 0
	if err := client.DB().Callback().Query().Before("gorm:query").Register("count_queries", func(tx *gorm.DB) {
		executed++
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	if err := client.DB().Callback().Raw().Before("gorm:raw").Register("count_raw", func(tx *gorm.DB) {
		executed++
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	fake := &llmtest.Fake{Responses: []string{"SELECT * FROM sales; DROP TABLE sales;"}}
	service := NewService(fake, client, testLogger())

	result := service.ProcessQuery(context.Background(), "delete everything")
	if result.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(result.Error, "only SELECT queries are allowed") {
		t.Fatalf("unexpected error %q", result.Error)
	}
	if executed != 0 {
		t.Fatalf("rejected statement still reached storage (%d executions)", executed)
	}

	var vehicles int64
	if err := client.DB().Model(&models.Vehicle{}).Count(&vehicles).Error; err != nil {
		t.Fatalf("count vehicles: %v", err)
	}
	if vehicles != 1 {
		t.Fatalf("expected seeded rows intact, counted %d", vehicles)
	}
}

func TestProcessQueryLLMFailure(t *testing.T) {
	client := openTestDB(t)
	fake := &llmtest.Fake{Err: errors.New("boom")}
	service := NewService(fake, client, testLogger())

	result := service.ProcessQuery(context.Background(), "anything")
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "AI service error") {
		t.Fatalf("expected AI service error category, got %q", result.Error)
	}
}

func TestProcessQueryNoSelectInResponse(t *testing.T) {
	client := openTestDB(t)
	fake := &llmtest.Fake{Responses: []string{"I cannot answer that."}}
	service := NewService(fake, client, testLogger())

	result := service.ProcessQuery(context.Background(), "what is the meaning of life?")
	if result.Success || result.Error != "Could not generate SQL query" {
		t.Fatalf("unexpected result %+v", result)
	}
}
