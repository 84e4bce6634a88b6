package metadb

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens (creating if necessary) the SQLite metadata database
// at dsn and runs AutoMigrate over every row model. gorm's own
// open-then-migrate idiom has no direct pack precedent (see the
// package doc comment), so the single-local-file case is kept as
// simple as gorm allows, since the compiler never targets a remote
// libsql/turso store (spec.md names no remote metadata destination).
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating metadata directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("opening metadata database %s: %w", dsn, err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating metadata schema: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every metadata table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
