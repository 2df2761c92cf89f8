// Package testdb opens throwaway SQLite databases for repository and service tests.
package testdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
)

// Open creates a database file under t.TempDir and auto-migrates models into it.
func Open(t *testing.T, models ...any) (*gorm.DB, *sql.DB) {
	t.Helper()

	db, err := connection.OpenSQLite(filepath.Join(t.TempDir(), "leave_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("auto migrate: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db, sqlDB
}
