package enums

import "fmt"

// ReportType represents the kinds of generated business reports.
type ReportType string

const (
	ReportTypeExecutive ReportType = "executive"
	ReportTypeDetailed  ReportType = "detailed"
	ReportTypeProduct   ReportType = "product"
)

var validReportTypes = []ReportType{
	ReportTypeExecutive,
	ReportTypeDetailed,
	ReportTypeProduct,
}

// String implements fmt.Stringer.
func (r ReportType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReportType.
func (r ReportType) IsValid() bool {
	for _, candidate := range validReportTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReportType converts raw input into a ReportType.
func ParseReportType(value string) (ReportType, error) {
	for _, candidate := range validReportTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report type %q", value)
}
