package enums

import "fmt"

// MetricType names the aggregation stored in an analytics snapshot row.
type MetricType string

const (
	MetricTypeDailySales        MetricType = "daily_sales"
	MetricTypeSalesByRegion     MetricType = "sales_by_region"
	MetricTypeSalesByCategory   MetricType = "sales_by_category"
	MetricTypeSalesBySegment    MetricType = "sales_by_segment"
	MetricTypeTopVehicles       MetricType = "top_vehicles"
	MetricTypeInventoryByStatus MetricType = "inventory_by_status"
	MetricTypeInventorySummary  MetricType = "inventory_summary"
)

var validMetricTypes = []MetricType{
	MetricTypeDailySales,
	MetricTypeSalesByRegion,
	MetricTypeSalesByCategory,
	MetricTypeSalesBySegment,
	MetricTypeTopVehicles,
	MetricTypeInventoryByStatus,
	MetricTypeInventorySummary,
}

// String implements fmt.Stringer.
func (m MetricType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetricType.
func (m MetricType) IsValid() bool {
	for _, candidate := range validMetricTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetricType converts raw input into a MetricType.
func ParseMetricType(value string) (MetricType, error) {
	for _, candidate := range validMetricTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric type %q", value)
}
