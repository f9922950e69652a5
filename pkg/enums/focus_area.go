package enums

import "fmt"

// FocusArea selects which side of the business an insight run looks at.
type FocusArea string

const (
	FocusAreaSales     FocusArea = "sales"
	FocusAreaInventory FocusArea = "inventory"
	FocusAreaBoth      FocusArea = "both"
)

var validFocusAreas = []FocusArea{
	FocusAreaSales,
	FocusAreaInventory,
	FocusAreaBoth,
}

// String implements fmt.Stringer.
func (f FocusArea) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FocusArea.
func (f FocusArea) IsValid() bool {
	for _, candidate := range validFocusAreas {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFocusArea converts raw input into a FocusArea.
func ParseFocusArea(value string) (FocusArea, error) {
	for _, candidate := range validFocusAreas {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid focus area %q", value)
}
