package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/salesreport/internal/common"
	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/Veraticus/salesreport/internal/sheets"
	"github.com/Veraticus/salesreport/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2024, 6, 30, 18, 45, 12, 0, time.UTC)

type fakeSource struct {
	err   error
	sales []model.Sale
	calls int
}

func (f *fakeSource) LoadSales(context.Context) ([]model.Sale, error) {
	f.calls++
	return f.sales, f.err
}

type fakeRecorder struct {
	err  error
	runs []service.ReportRun
}

func (f *fakeRecorder) RecordRun(_ context.Context, run *service.ReportRun) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRecorder) RecentRuns(context.Context, int) ([]service.ReportRun, error) {
	return f.runs, nil
}

// fileWriter is a MockWriter that also reports an artifact path.
type fileWriter struct {
	*sheets.MockWriter
	path string
}

func (f fileWriter) Path() string { return f.path }

func testSales() []model.Sale {
	return []model.Sale{
		{ID: 1, Product: "A", Category: "X", Quantity: 2, UnitValue: decimal.NewFromInt(10), SaleDate: generatedAt.AddDate(0, 0, -10), Seller: "S1"},
		{ID: 2, Product: "B", Category: "X", Quantity: 1, UnitValue: decimal.NewFromInt(5), SaleDate: generatedAt.AddDate(0, 0, -5), Seller: "S1"},
		{ID: 3, Product: "A", Category: "Y", Quantity: 3, UnitValue: decimal.NewFromInt(10), SaleDate: generatedAt.AddDate(0, 0, -1), Seller: "S2"},
	}
}

func testConfig() Config {
	return Config{
		Clock: func() time.Time { return generatedAt },
		NewID: func() string { return "run-1" },
		TopN:  5,
	}
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "Sales_Report_20240630_184512.xlsx", ReportFileName(generatedAt))
	assert.Equal(t, filepath.Join("out", "Sales_Report_20240630_184512.xlsx"), ReportPath("out", generatedAt))
}

func TestEngine_Run(t *testing.T) {
	source := &fakeSource{sales: testSales()}
	first := fileWriter{MockWriter: sheets.NewMockWriter(), path: "/tmp/report.xlsx"}
	second := sheets.NewMockWriter()
	recorder := &fakeRecorder{}

	result, err := New(source, testConfig(), first, second).WithRecorder(recorder).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 3, result.KPIs.Count)
	assert.True(t, decimal.NewFromInt(55).Equal(result.KPIs.TotalRevenue))
	assert.Equal(t, 6, result.KPIs.TotalUnits)
	assert.Equal(t, "/tmp/report.xlsx", result.Path)

	wb := result.Workbook
	assert.Equal(t, "run-1", wb.ID)
	assert.Equal(t, generatedAt, wb.GeneratedAt)
	require.Len(t, wb.Sheets, 4)

	assert.Equal(t, 1, first.WriteCallCount)
	assert.Equal(t, 1, second.WriteCallCount)
	assert.Same(t, wb, second.LastWorkbook)

	require.Len(t, recorder.runs, 1)
	run := recorder.runs[0]
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "/tmp/report.xlsx", run.Path)
	assert.Equal(t, 3, run.SaleCount)
	assert.True(t, decimal.NewFromInt(55).Equal(run.TotalRevenue))
}

func TestEngine_RunIdempotent(t *testing.T) {
	source := &fakeSource{sales: testSales()}

	a, err := New(source, testConfig(), sheets.NewMockWriter()).Run(context.Background())
	require.NoError(t, err)
	b, err := New(source, testConfig(), sheets.NewMockWriter()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Workbook, b.Workbook)
}

func TestEngine_RunEmpty(t *testing.T) {
	t.Run("zero report by default", func(t *testing.T) {
		writer := sheets.NewMockWriter()
		result, err := New(&fakeSource{}, testConfig(), writer).Run(context.Background())
		require.NoError(t, err)

		assert.True(t, result.KPIs.Empty())
		assert.Equal(t, 1, writer.WriteCallCount)
	})

	t.Run("fail on empty", func(t *testing.T) {
		cfg := testConfig()
		cfg.FailOnEmpty = true
		writer := sheets.NewMockWriter()

		_, err := New(&fakeSource{}, cfg, writer).Run(context.Background())
		assert.ErrorIs(t, err, common.ErrEmptyDataset)
		assert.Zero(t, writer.WriteCallCount)
	})
}

func TestEngine_RunErrors(t *testing.T) {
	invalid := testSales()
	invalid[1].Seller = ""

	tests := []struct {
		name    string
		source  *fakeSource
		writer  func() *sheets.MockWriter
		wantErr error
	}{
		{
			name:    "source failure",
			source:  &fakeSource{err: assert.AnError},
			writer:  sheets.NewMockWriter,
			wantErr: assert.AnError,
		},
		{
			name:    "invalid sale",
			source:  &fakeSource{sales: invalid},
			writer:  sheets.NewMockWriter,
			wantErr: model.ErrInvalidSale,
		},
		{
			name:   "writer failure",
			source: &fakeSource{sales: testSales()},
			writer: func() *sheets.MockWriter {
				w := sheets.NewMockWriter()
				w.SetWriteError(common.NewWriteFailure("/tmp/x.xlsx", assert.AnError))
				return w
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &fakeRecorder{}
			_, err := New(tt.source, testConfig(), tt.writer()).WithRecorder(recorder).Run(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, recorder.runs)
		})
	}
}

func TestEngine_WriterFailureStopsLaterWriters(t *testing.T) {
	failing := sheets.NewMockWriter()
	failing.SetWriteError(errors.New("disk full"))
	later := sheets.NewMockWriter()

	_, err := New(&fakeSource{sales: testSales()}, testConfig(), failing, later).Run(context.Background())
	require.Error(t, err)

	var wf *common.WriteFailureError
	assert.False(t, errors.As(err, &wf))
	assert.Zero(t, later.WriteCallCount)
}

func TestEngine_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := sheets.NewMockWriter()
	_, err := New(&fakeSource{sales: testSales()}, testConfig(), writer).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, writer.WriteCallCount)
}

func TestEngine_NoWriters(t *testing.T) {
	_, err := New(&fakeSource{}, testConfig()).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoWriters)
}

func TestEngine_RecorderFailureIsNotFatal(t *testing.T) {
	writer := fileWriter{MockWriter: sheets.NewMockWriter(), path: "/tmp/report.xlsx"}

	result, err := New(&fakeSource{sales: testSales()}, testConfig(), writer).
		WithRecorder(&fakeRecorder{err: assert.AnError}).
		Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/report.xlsx", result.Path)
}

func TestEngine_WithXLSXWriter(t *testing.T) {
	path := ReportPath(t.TempDir(), generatedAt)
	writer := sheets.NewXLSXWriter(path, nil)

	result, err := New(&fakeSource{sales: testSales()}, testConfig(), writer).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, result.Path)
	assert.FileExists(t, path)
}

func TestEngine_WithSQLiteSource(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.NewSalesBuilder().WithThreeSaleScenario().Build())
	path := ReportPath(t.TempDir(), generatedAt)

	result, err := New(db.Storage, testConfig(), sheets.NewXLSXWriter(path, nil)).
		WithRecorder(db.Storage).
		Run(context.Background())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(55).Equal(result.KPIs.TotalRevenue))

	// the detailed sheet follows the store's newest-first order
	detailed := result.Workbook.Sheet(sheets.SheetDetailed)
	require.NotNil(t, detailed)
	assert.Equal(t, int64(3), detailed.Rows[3].Cells[0].Int)

	runs, err := db.Storage.RecentRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, path, runs[0].Path)
}
