package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The reporting tables are owned by the data import pipeline; this service
// only makes sure the indexes its aggregations lean on exist.
var migrationStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_vehicles_plate_number ON vehicles (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_department_id ON vehicles (department_id);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_plate_number ON violations (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_time ON violations (violation_time);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_plate_number ON maintenance (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_request_time ON maintenance (request_time);`,
	`CREATE INDEX IF NOT EXISTS idx_fuel_summary_plate_year_month ON monthly_fuel_summary (plate_number, year, month);`,
}

func runMigrations(db *gorm.DB) error {
	for _, statement := range migrationStatements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
