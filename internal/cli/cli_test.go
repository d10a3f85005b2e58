package cli

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/salesreport/internal/report"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "R$ 0.00"},
		{in: "55", want: "R$ 55.00"},
		{in: "18.333333", want: "R$ 18.33"},
		{in: "1234.5", want: "R$ 1,234.50"},
		{in: "1234567.891", want: "R$ 1,234,567.89"},
		{in: "-999.99", want: "-R$ 999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRenderKPIs(t *testing.T) {
	out := RenderKPIs(report.KPIs{
		Count:         3,
		TotalRevenue:  decimal.NewFromInt(55),
		AverageTicket: decimal.RequireFromString("18.3333"),
		TotalUnits:    6,
	}, "/tmp/Sales_Report.xlsx")

	for _, want := range []string{"Sales Report", "Total Sales", "R$ 55.00", "R$ 18.33", "Products Sold", "/tmp/Sales_Report.xlsx"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderRuns(t *testing.T) {
	assert.Contains(t, RenderRuns(nil), "No reports generated yet")

	out := RenderRuns([]service.ReportRun{{
		ID:           "run-1",
		GeneratedAt:  time.Date(2024, 6, 30, 18, 45, 0, 0, time.UTC),
		Path:         "out/Sales_Report_20240630_184500.xlsx",
		SaleCount:    3,
		TotalRevenue: decimal.NewFromInt(55),
	}})
	assert.Contains(t, out, "30/06/2024 18:45")
	assert.Contains(t, out, "R$ 55.00")
	assert.Contains(t, out, "Sales_Report_20240630_184500.xlsx")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, "Writing report", nil)

	p.Increment()
	p.Increment()
	assert.Equal(t, 2, p.Count())

	p.Finish()
	assert.Contains(t, buf.String(), "Writing report")
}

func TestInterruptHandler(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx, cancel := handler.HandleInterrupts(context.Background())
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	handler.signals <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after interrupt")
	}

	require.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	assert.Contains(t, output.String(), "Report generation interrupted!")
}

func TestInterruptHandler_ParentCanceled(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{})

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := handler.HandleInterrupts(parent)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}
