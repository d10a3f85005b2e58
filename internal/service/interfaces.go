// Package service defines the interfaces shared between report components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// SalesSource supplies the batch of sales a report is built from.
type SalesSource interface {
	LoadSales(ctx context.Context) ([]model.Sale, error)
}

// SalesStore persists sales between runs.
type SalesStore interface {
	SalesSource
	SaveSales(ctx context.Context, sales []model.Sale) error
	GetSales(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	CountSales(ctx context.Context) (int, error)
	Close() error
}

// RunRecorder keeps a history of generated reports.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *ReportRun) error
	RecentRuns(ctx context.Context, limit int) ([]ReportRun, error)
}

// ReportRun describes one generated report artifact.
type ReportRun struct {
	GeneratedAt  time.Time
	TotalRevenue decimal.Decimal
	ID           string
	Path         string
	SaleCount    int
}

// SaleFilter narrows a sales query.
type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// WithDefaults fills zero fields with the standard backoff settings.
func (o RetryOptions) WithDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2.0
	}
	return o
}
