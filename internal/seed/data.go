package seed

import "github.com/autovista-ai/autovista-backend/pkg/enums"

// automotiveCatalog maps makes to their common models.
var automotiveCatalog = map[string][]string{
	"Toyota":        {"Camry", "Corolla", "RAV4", "Highlander", "Tacoma", "Tundra", "4Runner"},
	"Honda":         {"Civic", "Accord", "CR-V", "Pilot", "Ridgeline", "HR-V"},
	"Ford":          {"F-150", "Mustang", "Explorer", "Escape", "Bronco", "Ranger", "Edge"},
	"Chevrolet":     {"Silverado", "Equinox", "Tahoe", "Malibu", "Traverse", "Colorado"},
	"Nissan":        {"Altima", "Rogue", "Sentra", "Pathfinder", "Frontier", "Murano"},
	"BMW":           {"3 Series", "5 Series", "X3", "X5", "7 Series", "X1"},
	"Mercedes-Benz": {"C-Class", "E-Class", "GLE", "GLC", "S-Class", "GLA"},
	"Audi":          {"A4", "Q5", "A6", "Q7", "A3", "Q3"},
	"Hyundai":       {"Elantra", "Sonata", "Tucson", "Santa Fe", "Palisade", "Kona"},
	"Jeep":          {"Wrangler", "Grand Cherokee", "Cherokee", "Gladiator", "Compass"},
}

var categoryByModel = map[string]enums.VehicleCategory{}

func init() {
	mapping := map[enums.VehicleCategory][]string{
		enums.VehicleCategorySedan:   {"Camry", "Corolla", "Civic", "Accord", "Altima", "Malibu", "Sentra", "3 Series", "5 Series", "7 Series", "C-Class", "E-Class", "S-Class", "A4", "A6", "A3", "Elantra", "Sonata"},
		enums.VehicleCategorySUV:     {"RAV4", "Highlander", "CR-V", "Pilot", "Explorer", "Escape", "Equinox", "Tahoe", "Traverse", "Rogue", "Pathfinder", "Murano", "X3", "X5", "X1", "GLE", "GLC", "GLA", "Q5", "Q7", "Q3", "Tucson", "Santa Fe", "Palisade", "Grand Cherokee", "Cherokee", "Edge"},
		enums.VehicleCategoryTruck:   {"F-150", "Silverado", "Tacoma", "Tundra", "Ridgeline", "Ranger", "Frontier", "Colorado", "Gladiator"},
		enums.VehicleCategorySports:  {"Mustang"},
		enums.VehicleCategoryOffroad: {"Wrangler", "Bronco", "4Runner"},
		enums.VehicleCategoryCompact: {"HR-V", "Kona", "Compass"},
	}
	for category, models := range mapping {
		for _, model := range models {
			categoryByModel[model] = category
		}
	}
}

// categoryForModel falls back to sedan for unmapped models.
func categoryForModel(model string) enums.VehicleCategory {
	if category, ok := categoryByModel[model]; ok {
		return category
	}
	return enums.VehicleCategorySedan
}

type msrpRange struct {
	min, max float64
}

var msrpRanges = map[enums.VehicleCategory]msrpRange{
	enums.VehicleCategorySedan:   {22000, 55000},
	enums.VehicleCategorySUV:     {28000, 75000},
	enums.VehicleCategoryTruck:   {30000, 70000},
	enums.VehicleCategorySports:  {28000, 65000},
	enums.VehicleCategoryOffroad: {35000, 60000},
	enums.VehicleCategoryCompact: {20000, 35000},
}

func msrpRangeFor(category enums.VehicleCategory) msrpRange {
	if r, ok := msrpRanges[category]; ok {
		return r
	}
	return msrpRange{25000, 50000}
}

var trimLevels = []string{"Base", "LE", "XLE", "Limited", "Sport", "Touring", "Premium", "Luxury", "Ultimate"}

type warehouse struct {
	location string
	region   enums.Region
}

var warehouses = []warehouse{
	{"Los Angeles Warehouse", enums.RegionWest},
	{"San Francisco Warehouse", enums.RegionWest},
	{"Chicago Warehouse", enums.RegionMidwest},
	{"Detroit Warehouse", enums.RegionMidwest},
	{"Houston Warehouse", enums.RegionSouth},
	{"Dallas Warehouse", enums.RegionSouth},
	{"New York Warehouse", enums.RegionNortheast},
	{"Boston Warehouse", enums.RegionNortheast},
	{"Atlanta Warehouse", enums.RegionSoutheast},
	{"Miami Warehouse", enums.RegionSoutheast},
}

// seasonalFactors scale sales volume and discounts by month.
var seasonalFactors = map[int]float64{
	1: 0.85, 2: 0.88, 3: 0.95, 4: 1.05, 5: 1.10, 6: 1.15,
	7: 1.12, 8: 1.08, 9: 0.98, 10: 1.02, 11: 1.05, 12: 1.20,
}

type categoryWeight struct {
	category enums.VehicleCategory
	weight   float64
}

// regionalPreferences bias category choice per region.
var regionalPreferences = map[enums.Region][]categoryWeight{
	enums.RegionWest: {
		{enums.VehicleCategorySUV, 0.40}, {enums.VehicleCategorySedan, 0.35},
		{enums.VehicleCategoryTruck, 0.15}, {enums.VehicleCategorySports, 0.05},
		{enums.VehicleCategoryOffroad, 0.03}, {enums.VehicleCategoryCompact, 0.02},
	},
	enums.RegionMidwest: {
		{enums.VehicleCategoryTruck, 0.40}, {enums.VehicleCategorySUV, 0.35},
		{enums.VehicleCategorySedan, 0.20}, {enums.VehicleCategorySports, 0.03},
		{enums.VehicleCategoryOffroad, 0.02},
	},
	enums.RegionSouth: {
		{enums.VehicleCategoryTruck, 0.45}, {enums.VehicleCategorySUV, 0.30},
		{enums.VehicleCategorySedan, 0.20}, {enums.VehicleCategorySports, 0.03},
		{enums.VehicleCategoryOffroad, 0.02},
	},
	enums.RegionNortheast: {
		{enums.VehicleCategorySedan, 0.45}, {enums.VehicleCategorySUV, 0.35},
		{enums.VehicleCategoryCompact, 0.10}, {enums.VehicleCategoryTruck, 0.05},
		{enums.VehicleCategorySports, 0.03}, {enums.VehicleCategoryOffroad, 0.02},
	},
	enums.RegionSoutheast: {
		{enums.VehicleCategorySUV, 0.35}, {enums.VehicleCategoryTruck, 0.30},
		{enums.VehicleCategorySedan, 0.25}, {enums.VehicleCategorySports, 0.05},
		{enums.VehicleCategoryOffroad, 0.03}, {enums.VehicleCategoryCompact, 0.02},
	},
}

var segmentWeights = []struct {
	segment enums.CustomerSegment
	weight  float64
}{
	{enums.CustomerSegmentIndividual, 0.70},
	{enums.CustomerSegmentFleet, 0.20},
	{enums.CustomerSegmentDealer, 0.10},
}
