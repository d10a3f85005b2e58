package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage opens a migrated database in a temp dir.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "sales.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 10, 30, 0, 0, time.UTC)
}

func testSales() []model.Sale {
	return []model.Sale{
		{ID: 1, Product: "Dell Laptop", Category: "Electronics", Quantity: 2, UnitValue: decimal.RequireFromString("3500.00"), SaleDate: day(10), Seller: "Ana Costa"},
		{ID: 2, Product: "Logitech Mouse", Category: "Peripherals", Quantity: 5, UnitValue: decimal.RequireFromString("89.90"), SaleDate: day(20), Seller: "João Silva"},
		{ID: 3, Product: "1TB SSD", Category: "Hardware", Quantity: 1, UnitValue: decimal.RequireFromString("550.00"), SaleDate: day(15), Seller: "Maria Santos"},
		{ID: 4, Product: "16GB RAM", Category: "Hardware", Quantity: 3, UnitValue: decimal.RequireFromString("380.00"), SaleDate: day(20), Seller: "Ana Costa"},
	}
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// a second run is a no-op
	require.NoError(t, store.Migrate(ctx))

	var tables int
	err = store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('sales', 'report_runs')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStorage(t)
	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}

func TestNewSQLiteStorage(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	mem, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = mem.Close() }()
	require.NoError(t, mem.Migrate(context.Background()))
	assert.Equal(t, ":memory:", mem.Path())
}

func TestSaveAndLoadSales(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSales(ctx, testSales()))

	count, err := store.CountSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	sales, err := store.LoadSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 4)

	// newest first, ties by id
	ids := make([]int, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{2, 4, 3, 1}, ids)

	mouse := sales[0]
	assert.Equal(t, "Logitech Mouse", mouse.Product)
	assert.Equal(t, "Peripherals", mouse.Category)
	assert.Equal(t, "João Silva", mouse.Seller)
	assert.Equal(t, 5, mouse.Quantity)
	assert.True(t, decimal.RequireFromString("89.90").Equal(mouse.UnitValue))
	assert.True(t, day(20).Equal(mouse.SaleDate))
	assert.True(t, decimal.RequireFromString("449.50").Equal(mouse.Total()))
}

func TestSaveSales_Replaces(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSales(ctx, testSales()))

	updated := testSales()[:1]
	updated[0].Quantity = 9
	require.NoError(t, store.SaveSales(ctx, updated))

	sales, err := store.GetSales(ctx, service.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, sales, 4)
	assert.Equal(t, 9, sales[3].Quantity)
}

func TestSaveSales_Invalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	invalid := testSales()
	invalid[2].Quantity = 0

	tests := []struct {
		name  string
		sales []model.Sale
		want  error
	}{
		{name: "nil", sales: nil, want: ErrNilParameter},
		{name: "empty", sales: []model.Sale{}, want: ErrEmptySlice},
		{name: "bad quantity", sales: invalid, want: model.ErrInvalidSale},
		{name: "duplicate id", sales: append(testSales(), testSales()[0]), want: model.ErrInvalidSale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveSales(ctx, tt.sales), tt.want)
		})
	}

	count, err := store.CountSales(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "invalid batches must not be partially written")
}

func TestGetSales_Filter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.SaveSales(ctx, testSales()))

	start, end := day(12), day(18)
	tests := []struct {
		name    string
		filter  service.SaleFilter
		want    []int
		wantErr error
	}{
		{name: "window", filter: service.SaleFilter{StartDate: &start, EndDate: &end}, want: []int{3}},
		{name: "from start", filter: service.SaleFilter{StartDate: &start}, want: []int{2, 4, 3}},
		{name: "until end", filter: service.SaleFilter{EndDate: &end}, want: []int{3, 1}},
		{name: "limit", filter: service.SaleFilter{Limit: 2}, want: []int{2, 4}},
		{name: "inverted range", filter: service.SaleFilter{StartDate: &end, EndDate: &start}, wantErr: ErrInvalidDateRange},
		{name: "negative limit", filter: service.SaleFilter{Limit: -1}, wantErr: ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales, err := store.GetSales(ctx, tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int, len(sales))
			for i, s := range sales {
				ids[i] = s.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDeleteAllSales(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	require.NoError(t, store.SaveSales(ctx, testSales()))

	require.NoError(t, store.DeleteAllSales(ctx))

	sales, err := store.LoadSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestReportRuns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := &service.ReportRun{
		ID:           "run-1",
		GeneratedAt:  day(1),
		Path:         "/tmp/Sales_Report_20240601_103000.xlsx",
		SaleCount:    3,
		TotalRevenue: decimal.RequireFromString("55.00"),
	}
	second := &service.ReportRun{
		ID:           "run-2",
		GeneratedAt:  day(2),
		Path:         "/tmp/Sales_Report_20240602_103000.xlsx",
		TotalRevenue: decimal.Zero,
	}
	require.NoError(t, store.RecordRun(ctx, first))
	require.NoError(t, store.RecordRun(ctx, second))

	runs, err := store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 3, runs[1].SaleCount)
	assert.True(t, first.TotalRevenue.Equal(runs[1].TotalRevenue))
	assert.True(t, day(1).Equal(runs[1].GeneratedAt))

	limited, err := store.RecentRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.ErrorIs(t, store.RecordRun(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.RecordRun(ctx, &service.ReportRun{ID: "x", GeneratedAt: day(3)}), ErrEmptyString)
	_, err = store.RecentRuns(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
