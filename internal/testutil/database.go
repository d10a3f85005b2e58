// Package testutil provides shared fixtures for tests that need sales or a
// migrated sales database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/storage"
)

// TestDB wraps a migrated in-memory sales database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database holding sales.
// Cleanup is registered on t.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewSalesBuilder().
//		WithSale("Dell Laptop", "Electronics", "Ana Costa", 1, "3500.00").
//		Build())
func SetupTestDB(t *testing.T, sales []model.Sale) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(sales) > 0 {
		if err := store.SaveSales(ctx, sales); err != nil {
			t.Fatalf("failed to seed %d sales: %v", len(sales), err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// MustLoadSales returns every stored sale or fails the test.
func (db *TestDB) MustLoadSales() []model.Sale {
	db.t.Helper()

	sales, err := db.Storage.LoadSales(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load sales: %v", err)
	}
	return sales
}
