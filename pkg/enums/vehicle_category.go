package enums

import "fmt"

// VehicleCategory represents the canonical vehicle body categories in the catalog.
type VehicleCategory string

const (
	VehicleCategorySedan   VehicleCategory = "sedan"
	VehicleCategorySUV     VehicleCategory = "suv"
	VehicleCategoryTruck   VehicleCategory = "truck"
	VehicleCategorySports  VehicleCategory = "sports"
	VehicleCategoryOffroad VehicleCategory = "offroad"
	VehicleCategoryCompact VehicleCategory = "compact"
)

var validVehicleCategories = []VehicleCategory{
	VehicleCategorySedan,
	VehicleCategorySUV,
	VehicleCategoryTruck,
	VehicleCategorySports,
	VehicleCategoryOffroad,
	VehicleCategoryCompact,
}

// String implements fmt.Stringer.
func (c VehicleCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known VehicleCategory.
func (c VehicleCategory) IsValid() bool {
	for _, candidate := range validVehicleCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseVehicleCategory converts raw input into a VehicleCategory.
func ParseVehicleCategory(value string) (VehicleCategory, error) {
	for _, candidate := range validVehicleCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle category %q", value)
}

// VehicleCategories returns all recognized categories.
func VehicleCategories() []VehicleCategory {
	out := make([]VehicleCategory, len(validVehicleCategories))
	copy(out, validVehicleCategories)
	return out
}
