package aggregate

import "github.com/autovista-ai/autovista-backend/internal/extract"

// Dedupe removes sales sharing an ID, keeping the first occurrence. Rows come
// from a keyed table, so ID identity is full-row identity here.
func Dedupe(rows []extract.SaleRow) []extract.SaleRow {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]extract.SaleRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, row)
	}
	return out
}

// DropNonPositive removes sales whose quantity, unit price or total amount
// is zero or negative. Bad rows distort every downstream average.
func DropNonPositive(rows []extract.SaleRow) []extract.SaleRow {
	out := make([]extract.SaleRow, 0, len(rows))
	for _, row := range rows {
		if row.Quantity <= 0 || row.UnitPrice <= 0 || row.TotalAmount <= 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

// DedupeJoined removes joined sales rows sharing a sale ID, on the same
// keyed-table reasoning as Dedupe.
func DedupeJoined(rows []extract.SaleVehicleRow) []extract.SaleVehicleRow {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]extract.SaleVehicleRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.SaleID]; ok {
			continue
		}
		seen[row.SaleID] = struct{}{}
		out = append(out, row)
	}
	return out
}

// DropNonPositiveJoined removes joined sales rows with non-positive amounts.
func DropNonPositiveJoined(rows []extract.SaleVehicleRow) []extract.SaleVehicleRow {
	out := make([]extract.SaleVehicleRow, 0, len(rows))
	for _, row := range rows {
		if row.Quantity <= 0 || row.UnitPrice <= 0 || row.TotalAmount <= 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}
