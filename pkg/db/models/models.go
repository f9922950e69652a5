package models

// All returns every model registered for schema auto-migration. Production
// deployments run SQL migrations instead; this list backs SQLite runs and
// test databases.
func All() []any {
	return []any{
		&Vehicle{},
		&SaleTransaction{},
		&InventoryRecord{},
		&AnalyticsSnapshot{},
		&InsightRecord{},
	}
}
