package seed

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autovista-ai/autovista-backend/pkg/db/models"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

const vinAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

// Options controls the size and reproducibility of a generated dataset.
type Options struct {
	Seed         int64
	VehicleCount int
	SalesCount   int
	SalesMonths  int
	Now          time.Time
}

func (o *Options) applyDefaults() {
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.VehicleCount <= 0 {
		o.VehicleCount = 100
	}
	if o.SalesCount <= 0 {
		o.SalesCount = 10000
	}
	if o.SalesMonths <= 0 {
		o.SalesMonths = 24
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
}

// Generator produces deterministic synthetic catalog, inventory, and sales
// data for demos and load testing.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

// NewGenerator builds a Generator. A zero Seed uses the default seed so
// repeated runs materialize the same dataset.
func NewGenerator(opts Options) *Generator {
	opts.applyDefaults()
	return &Generator{
		rng:  rand.New(rand.NewSource(opts.Seed)),
		opts: opts,
	}
}

// Vehicles generates the vehicle catalog.
func (g *Generator) Vehicles() []models.Vehicle {
	makes := make([]string, 0, len(automotiveCatalog))
	for name := range automotiveCatalog {
		makes = append(makes, name)
	}
	sort.Strings(makes)

	seen := map[string]bool{}
	vehicles := make([]models.Vehicle, 0, g.opts.VehicleCount)
	for i := 0; i < g.opts.VehicleCount; i++ {
		makeName := makes[g.rng.Intn(len(makes))]
		modelNames := automotiveCatalog[makeName]
		modelName := modelNames[g.rng.Intn(len(modelNames))]
		category := categoryForModel(modelName)
		priceRange := msrpRangeFor(category)
		trim := trimLevels[g.rng.Intn(len(trimLevels))]

		vin := g.vin(seen)
		msrp := priceRange.min + g.rng.Float64()*(priceRange.max-priceRange.min)

		vehicles = append(vehicles, models.Vehicle{
			VIN:            vin,
			Make:           makeName,
			Model:          modelName,
			Year:           2020 + g.rng.Intn(5),
			Category:       category,
			Trim:           &trim,
			MSRP:           decimal.NewFromFloat(msrp).Round(2),
			Specifications: g.specifications(),
		})
	}
	return vehicles
}

func (g *Generator) vin(seen map[string]bool) string {
	for {
		buf := make([]byte, 17)
		for i := range buf {
			buf[i] = vinAlphabet[g.rng.Intn(len(vinAlphabet))]
		}
		vin := string(buf)
		if !seen[vin] {
			seen[vin] = true
			return vin
		}
	}
}

func (g *Generator) specifications() json.RawMessage {
	engines := []string{"2.0L I4", "2.5L I4", "3.5L V6", "5.0L V8", "2.0L Turbo", "Hybrid 2.5L"}
	transmissions := []string{"Automatic", "Manual", "CVT", "Dual-Clutch"}
	drivetrains := []string{"FWD", "RWD", "AWD", "4WD"}
	colors := []string{"White", "Black", "Silver", "Gray", "Blue", "Red"}

	specs := map[string]any{
		"engine":               engines[g.rng.Intn(len(engines))],
		"transmission":         transmissions[g.rng.Intn(len(transmissions))],
		"drivetrain":           drivetrains[g.rng.Intn(len(drivetrains))],
		"fuel_economy_city":    18 + g.rng.Intn(18),
		"fuel_economy_highway": 24 + g.rng.Intn(22),
		"horsepower":           150 + g.rng.Intn(301),
		"color":                colors[g.rng.Intn(len(colors))],
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

// Inventory generates stock records placing each vehicle in a random subset
// of warehouses. Vehicle IDs must already be assigned.
func (g *Generator) Inventory(vehicles []models.Vehicle) []models.InventoryRecord {
	records := make([]models.InventoryRecord, 0, len(vehicles)*4)
	for _, vehicle := range vehicles {
		count := 2 + g.rng.Intn(5)
		for _, idx := range g.rng.Perm(len(warehouses))[:count] {
			wh := warehouses[idx]
			qty := 5 + g.rng.Intn(46)
			reservedCap := qty / 2
			if reservedCap > 5 {
				reservedCap = 5
			}
			restocked := g.opts.Now.AddDate(0, 0, -(1 + g.rng.Intn(90)))

			record := models.InventoryRecord{
				VehicleID:         vehicle.ID,
				WarehouseLocation: wh.location,
				Region:            wh.region,
				QuantityAvailable: qty,
				QuantityReserved:  g.rng.Intn(reservedCap + 1),
				ReorderPoint:      5 + g.rng.Intn(11),
				LastRestocked:     &restocked,
			}
			record.RecalculateStatus()
			records = append(records, record)
		}
	}
	return records
}

// Sales generates the historical transaction log over the configured window.
// Monthly seasonality scales discounts, and regional category preferences
// bias which vehicle sells where.
func (g *Generator) Sales(vehicles []models.Vehicle) []models.SaleTransaction {
	byCategory := map[enums.VehicleCategory][]models.Vehicle{}
	for _, vehicle := range vehicles {
		byCategory[vehicle.Category] = append(byCategory[vehicle.Category], vehicle)
	}
	regions := enums.Regions()

	end := g.opts.Now
	start := end.AddDate(0, -g.opts.SalesMonths, 0)
	window := int(end.Sub(start).Hours() / 24)

	sales := make([]models.SaleTransaction, 0, g.opts.SalesCount)
	for i := 0; i < g.opts.SalesCount; i++ {
		saleDate := start.AddDate(0, 0, g.rng.Intn(window+1))
		saleDate = time.Date(saleDate.Year(), saleDate.Month(), saleDate.Day(), 0, 0, 0, 0, time.UTC)
		seasonal := seasonalFactors[int(saleDate.Month())]

		region := regions[g.rng.Intn(len(regions))]
		category := g.pickCategory(region)
		pool := byCategory[category]
		if len(pool) == 0 {
			pool = vehicles
		}
		vehicle := pool[g.rng.Intn(len(pool))]

		segment := g.pickSegment()
		quantity := quantityFor(segment, g.rng)
		discount := g.discount(segment, seasonal)

		msrp, _ := vehicle.MSRP.Float64()
		unitPrice := decimal.NewFromFloat(msrp * (1 - discount/100)).Round(2)
		salesperson := fmt.Sprintf("SP%d", 1000+g.rng.Intn(9000))

		sale := models.SaleTransaction{
			VehicleID:       vehicle.ID,
			SaleDate:        saleDate,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
			CustomerSegment: segment,
			Region:          region,
			SalespersonID:   &salesperson,
			DiscountApplied: decimal.NewFromFloat(discount).Round(2),
		}
		sale.RecalculateTotal()
		sales = append(sales, sale)
	}
	return sales
}

// pickCategory follows regional preferences 80% of the time.
func (g *Generator) pickCategory(region enums.Region) enums.VehicleCategory {
	prefs, ok := regionalPreferences[region]
	if ok && g.rng.Float64() < 0.80 {
		roll := g.rng.Float64()
		cumulative := 0.0
		for _, pref := range prefs {
			cumulative += pref.weight
			if roll < cumulative {
				return pref.category
			}
		}
		return prefs[len(prefs)-1].category
	}
	all := enums.VehicleCategories()
	return all[g.rng.Intn(len(all))]
}

func (g *Generator) pickSegment() enums.CustomerSegment {
	roll := g.rng.Float64()
	cumulative := 0.0
	for _, sw := range segmentWeights {
		cumulative += sw.weight
		if roll < cumulative {
			return sw.segment
		}
	}
	return enums.CustomerSegmentIndividual
}

func quantityFor(segment enums.CustomerSegment, rng *rand.Rand) int {
	switch segment {
	case enums.CustomerSegmentFleet:
		return 3 + rng.Intn(18)
	case enums.CustomerSegmentDealer:
		return 5 + rng.Intn(26)
	default:
		return 1
	}
}

// discount yields the percentage off MSRP, larger for volume buyers and in
// slow months, capped at 25.
func (g *Generator) discount(segment enums.CustomerSegment, seasonal float64) float64 {
	var base float64
	switch segment {
	case enums.CustomerSegmentFleet:
		base = 5 + g.rng.Float64()*10
	case enums.CustomerSegmentDealer:
		base = 10 + g.rng.Float64()*10
	default:
		base = g.rng.Float64() * 8
	}
	if seasonal < 1.0 {
		base += g.rng.Float64() * 5
	}
	if base > 25 {
		base = 25
	}
	return base
}
