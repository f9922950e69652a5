package aggregate

import (
	"sort"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
)

// PeriodBucket is one time bucket of aggregated sales.
type PeriodBucket struct {
	Period              string  `json:"period"`
	Quantity            int     `json:"quantity"`
	TotalAmount         float64 `json:"total_amount"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// RegionBucket is aggregated sales for one region.
type RegionBucket struct {
	Region           enums.Region `json:"region"`
	Quantity         int          `json:"quantity"`
	TotalAmount      float64      `json:"total_amount"`
	TransactionCount int          `json:"transaction_count"`
	AvgDiscount      float64      `json:"avg_discount"`
	AvgSaleAmount    float64      `json:"avg_sale_amount"`
}

// CategoryBucket is aggregated sales for one vehicle category.
type CategoryBucket struct {
	Category         enums.VehicleCategory `json:"category"`
	Quantity         int                   `json:"quantity"`
	TotalAmount      float64               `json:"total_amount"`
	TransactionCount int                   `json:"transaction_count"`
	AvgUnitPrice     float64               `json:"avg_unit_price"`
}

// SegmentBucket is aggregated sales for one customer segment.
type SegmentBucket struct {
	Segment                   enums.CustomerSegment `json:"customer_segment"`
	Quantity                  int                   `json:"quantity"`
	TotalAmount               float64               `json:"total_amount"`
	TransactionCount          int                   `json:"transaction_count"`
	AvgDiscount               float64               `json:"avg_discount"`
	AvgQuantityPerTransaction float64               `json:"avg_quantity_per_transaction"`
}

// VehicleBucket is aggregated sales for one vehicle.
type VehicleBucket struct {
	VehicleID   int64                 `json:"vehicle_id"`
	Make        string                `json:"make"`
	Model       string                `json:"model"`
	Category    enums.VehicleCategory `json:"category"`
	Quantity    int                   `json:"quantity"`
	TotalAmount float64               `json:"total_amount"`
}

// StatusBucket is aggregated inventory for one stock status.
type StatusBucket struct {
	Status            enums.StockStatus `json:"status"`
	RecordCount       int               `json:"record_count"`
	QuantityAvailable int               `json:"quantity_available"`
	QuantityReserved  int               `json:"quantity_reserved"`
}

// TurnoverRow relates units sold to units held for one vehicle.
type TurnoverRow struct {
	VehicleID    int64   `json:"vehicle_id"`
	TotalSold    int     `json:"total_sold"`
	AvgInventory int     `json:"avg_inventory"`
	TurnoverRate float64 `json:"turnover_rate"`
}

// PeriodPoint is a generic (period, value) pair for growth calculations.
type PeriodPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// GrowthPoint extends PeriodPoint with the period-over-period change. The
// first period has no baseline so its rate is nil.
type GrowthPoint struct {
	Period        string   `json:"period"`
	Value         float64  `json:"value"`
	PreviousValue *float64 `json:"previous_value"`
	GrowthRate    *float64 `json:"growth_rate"`
}

// periodKey buckets a date per granularity. Weekly buckets are labeled by
// their ending Sunday; monthly buckets by year-month.
func periodKey(day time.Time, period enums.Period) string {
	switch period {
	case enums.PeriodWeekly:
		offset := (7 - int(day.Weekday())) % 7
		return day.AddDate(0, 0, offset).Format("2006-01-02")
	case enums.PeriodMonthly:
		return day.Format("2006-01")
	default:
		return day.Format("2006-01-02")
	}
}

// SalesByPeriod groups sales into time buckets of the given granularity,
// sorted chronologically. Empty input yields an empty slice.
func SalesByPeriod(rows []extract.SaleRow, period enums.Period) []PeriodBucket {
	byKey := make(map[string]*PeriodBucket)
	for _, row := range rows {
		key := periodKey(row.SaleDate, period)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &PeriodBucket{Period: key}
			byKey[key] = bucket
		}
		bucket.Quantity += row.Quantity
		bucket.TotalAmount += row.TotalAmount
		bucket.TransactionCount++
	}

	out := make([]PeriodBucket, 0, len(byKey))
	for _, bucket := range byKey {
		if bucket.TransactionCount > 0 {
			bucket.AvgTransactionValue = bucket.TotalAmount / float64(bucket.TransactionCount)
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// SalesByRegion groups sales per region with average discount and average
// sale amount, sorted by region name.
func SalesByRegion(rows []extract.SaleRow) []RegionBucket {
	byRegion := make(map[enums.Region]*RegionBucket)
	discountSums := make(map[enums.Region]float64)
	for _, row := range rows {
		bucket, ok := byRegion[row.Region]
		if !ok {
			bucket = &RegionBucket{Region: row.Region}
			byRegion[row.Region] = bucket
		}
		bucket.Quantity += row.Quantity
		bucket.TotalAmount += row.TotalAmount
		bucket.TransactionCount++
		discountSums[row.Region] += row.DiscountApplied
	}

	out := make([]RegionBucket, 0, len(byRegion))
	for region, bucket := range byRegion {
		if bucket.TransactionCount > 0 {
			bucket.AvgDiscount = discountSums[region] / float64(bucket.TransactionCount)
			bucket.AvgSaleAmount = bucket.TotalAmount / float64(bucket.TransactionCount)
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

// SalesByCategory groups joined sales per vehicle category. Average unit
// price is revenue over units, not the mean of per-sale prices.
func SalesByCategory(rows []extract.SaleVehicleRow) []CategoryBucket {
	byCategory := make(map[enums.VehicleCategory]*CategoryBucket)
	for _, row := range rows {
		bucket, ok := byCategory[row.Category]
		if !ok {
			bucket = &CategoryBucket{Category: row.Category}
			byCategory[row.Category] = bucket
		}
		bucket.Quantity += row.Quantity
		bucket.TotalAmount += row.TotalAmount
		bucket.TransactionCount++
	}

	out := make([]CategoryBucket, 0, len(byCategory))
	for _, bucket := range byCategory {
		if bucket.Quantity > 0 {
			bucket.AvgUnitPrice = bucket.TotalAmount / float64(bucket.Quantity)
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// SalesBySegment groups sales per customer segment.
func SalesBySegment(rows []extract.SaleRow) []SegmentBucket {
	bySegment := make(map[enums.CustomerSegment]*SegmentBucket)
	discountSums := make(map[enums.CustomerSegment]float64)
	for _, row := range rows {
		bucket, ok := bySegment[row.CustomerSegment]
		if !ok {
			bucket = &SegmentBucket{Segment: row.CustomerSegment}
			bySegment[row.CustomerSegment] = bucket
		}
		bucket.Quantity += row.Quantity
		bucket.TotalAmount += row.TotalAmount
		bucket.TransactionCount++
		discountSums[row.CustomerSegment] += row.DiscountApplied
	}

	out := make([]SegmentBucket, 0, len(bySegment))
	for segment, bucket := range bySegment {
		if bucket.TransactionCount > 0 {
			bucket.AvgDiscount = discountSums[segment] / float64(bucket.TransactionCount)
			bucket.AvgQuantityPerTransaction = float64(bucket.Quantity) / float64(bucket.TransactionCount)
		}
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Segment < out[j].Segment })
	return out
}

// TopVehicles returns the n best selling vehicles by revenue. Ties are broken
// by ascending vehicle ID so output is deterministic.
func TopVehicles(rows []extract.SaleVehicleRow, n int) []VehicleBucket {
	if n <= 0 {
		return []VehicleBucket{}
	}
	byVehicle := make(map[int64]*VehicleBucket)
	for _, row := range rows {
		bucket, ok := byVehicle[row.VehicleID]
		if !ok {
			bucket = &VehicleBucket{
				VehicleID: row.VehicleID,
				Make:      row.Make,
				Model:     row.Model,
				Category:  row.Category,
			}
			byVehicle[row.VehicleID] = bucket
		}
		bucket.Quantity += row.Quantity
		bucket.TotalAmount += row.TotalAmount
	}

	out := make([]VehicleBucket, 0, len(byVehicle))
	for _, bucket := range byVehicle {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		return out[i].VehicleID < out[j].VehicleID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// InventoryByStatus groups joined inventory rows per stock status.
func InventoryByStatus(rows []extract.InventoryVehicleRow) []StatusBucket {
	byStatus := make(map[enums.StockStatus]*StatusBucket)
	for _, row := range rows {
		bucket, ok := byStatus[row.Status]
		if !ok {
			bucket = &StatusBucket{Status: row.Status}
			byStatus[row.Status] = bucket
		}
		bucket.RecordCount++
		bucket.QuantityAvailable += row.QuantityAvailable
		bucket.QuantityReserved += row.QuantityReserved
	}

	out := make([]StatusBucket, 0, len(byStatus))
	for _, bucket := range byStatus {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// TurnoverByVehicle relates units sold to units on hand per vehicle. Vehicles
// with sales but no inventory rows get a floor of 1 unit held so the rate
// stays defined.
func TurnoverByVehicle(sales []extract.SaleRow, inventory []extract.InventoryRow) []TurnoverRow {
	soldByVehicle := make(map[int64]int)
	for _, sale := range sales {
		soldByVehicle[sale.VehicleID] += sale.Quantity
	}
	heldByVehicle := make(map[int64]int)
	for _, rec := range inventory {
		heldByVehicle[rec.VehicleID] += rec.QuantityAvailable
	}

	out := make([]TurnoverRow, 0, len(soldByVehicle))
	for vehicleID, sold := range soldByVehicle {
		held, ok := heldByVehicle[vehicleID]
		if !ok || held == 0 {
			held = 1
		}
		out = append(out, TurnoverRow{
			VehicleID:    vehicleID,
			TotalSold:    sold,
			AvgInventory: held,
			TurnoverRate: float64(sold) / float64(held),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out
}

// GrowthRates computes period-over-period percentage change on a sorted
// series. Points with a zero baseline get a nil rate.
func GrowthRates(points []PeriodPoint) []GrowthPoint {
	sorted := make([]PeriodPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period < sorted[j].Period })

	out := make([]GrowthPoint, 0, len(sorted))
	for i, point := range sorted {
		gp := GrowthPoint{Period: point.Period, Value: point.Value}
		if i > 0 {
			prev := sorted[i-1].Value
			gp.PreviousValue = &prev
			if prev != 0 {
				rate := (point.Value - prev) / prev * 100
				gp.GrowthRate = &rate
			}
		}
		out = append(out, gp)
	}
	return out
}
