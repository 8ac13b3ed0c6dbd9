// Package database handles the connection to the local store and schema
// inspection.
//
// It provides a wrapper around GORM to configure either an embedded SQLite
// file (the default) or a MySQL server, based on the application's
// configuration. SQLite connections are opened with foreign keys enabled, so
// deleting a catalog database or container cascades to the rows it owns.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects. The schema
// command uses it to show what the catalog migrations produced.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "items")
package database
