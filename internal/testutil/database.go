// Package testutil provides helpers for tests that need real backing
// services.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the local test database, skipping the test when it is
// not reachable. Expects a MySQL instance on localhost:3306 with a
// 'radagast_test' schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "root:@tcp(localhost:3306)/radagast_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the kv_store table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if db == nil {
		return
	}
	if _, err := db.Exec("DELETE FROM kv_store"); err != nil {
		t.Logf("failed to clean kv_store: %v", err)
	}
	db.Close()
}
