package enums

import "fmt"

// Region represents the sales regions the business operates in.
type Region string

const (
	RegionWest      Region = "West"
	RegionMidwest   Region = "Midwest"
	RegionSouth     Region = "South"
	RegionNortheast Region = "Northeast"
	RegionSoutheast Region = "Southeast"
)

var validRegions = []Region{
	RegionWest,
	RegionMidwest,
	RegionSouth,
	RegionNortheast,
	RegionSoutheast,
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Region.
func (r Region) IsValid() bool {
	for _, candidate := range validRegions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegion converts raw input into a Region.
func ParseRegion(value string) (Region, error) {
	for _, candidate := range validRegions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region %q", value)
}

// Regions returns all recognized regions.
func Regions() []Region {
	out := make([]Region, len(validRegions))
	copy(out, validRegions)
	return out
}
