// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL (production) or SQLite (local runs and tests) connections from
// the application configuration. GORM's own logging is routed through zap via zapgorm2.
//
// # Schema Inspection
//
// GetTableColumns returns the columns of a table using SHOW COLUMNS (MySQL) or
// PRAGMA table_info (SQLite). It feeds the inventory column catalog of the data quality
// feature and the schema integrity check.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database, log)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "property_states")
package database
