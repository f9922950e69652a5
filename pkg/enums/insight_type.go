package enums

import "fmt"

// InsightType classifies a stored insight by the analysis that produced it.
type InsightType string

const (
	InsightTypeSalesTrend      InsightType = "sales_trend"
	InsightTypeInventoryStatus InsightType = "inventory_status"
	InsightTypeAnomaly         InsightType = "anomaly"
	InsightTypeTrendAnalysis   InsightType = "trend_analysis"
)

var validInsightTypes = []InsightType{
	InsightTypeSalesTrend,
	InsightTypeInventoryStatus,
	InsightTypeAnomaly,
	InsightTypeTrendAnalysis,
}

// String implements fmt.Stringer.
func (i InsightType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InsightType.
func (i InsightType) IsValid() bool {
	for _, candidate := range validInsightTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInsightType converts raw input into an InsightType.
func ParseInsightType(value string) (InsightType, error) {
	for _, candidate := range validInsightTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid insight type %q", value)
}
