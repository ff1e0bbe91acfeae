package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"comandero/migrations"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/comandero_test?parseTime=true"

// SetupTestDB opens the integration database named by COMANDERO_TEST_DSN and skips the test when
// it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("COMANDERO_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the schema from the migrations package.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts, err := migrations.Statements()
	if err != nil {
		t.Fatalf("loading migrations: %v", err)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("applying migration: %v", err)
		}
	}
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"OrderLineModifiers", "OrderLines", "Orders",
		"MenuItemModifiers", "MenuItemVariants", "MenuItems", "MenuCategories",
		"RestaurantStaff", "Restaurants",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SeedRestaurant inserts a restaurant and returns its id.
func SeedRestaurant(t *testing.T, db *sql.DB, slug, name, ownerID string) int {
	t.Helper()

	res, err := db.Exec(`INSERT INTO Restaurants (slug, name, ownerId) VALUES (?, ?, ?)`, slug, name, ownerID)
	if err != nil {
		t.Fatalf("seeding restaurant: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seeding restaurant: %v", err)
	}
	return int(id)
}
