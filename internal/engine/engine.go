// Package engine runs the report pipeline: load sales, validate them,
// compose the workbook and hand it to every configured writer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/report"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/Veraticus/salesreport/internal/sheets"
	"github.com/google/uuid"
)

// ErrNoWriters is returned by Run when the engine has nothing to write to.
var ErrNoWriters = errors.New("no report writers configured")

// ReportFileName is the artifact name for a report generated at t.
func ReportFileName(t time.Time) string {
	return "Sales_Report_" + t.Format("20060102_150405") + ".xlsx"
}

// ReportPath joins dir and ReportFileName(t).
func ReportPath(dir string, t time.Time) string {
	return filepath.Join(dir, ReportFileName(t))
}

// Config holds configuration options for the report engine.
type Config struct {
	// Clock stamps the report; nil means time.Now.
	Clock func() time.Time
	// NewID names the run; nil means uuid.NewString.
	NewID       func() string
	Logger      *slog.Logger
	TopN        int
	FailOnEmpty bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Clock: time.Now,
		NewID: uuid.NewString,
		TopN:  report.DefaultTopN,
	}
}

// Engine orchestrates one report run.
type Engine struct {
	source      service.SalesSource
	recorder    service.RunRecorder
	clock       func() time.Time
	newID       func() string
	logger      *slog.Logger
	writers     []ReportWriter
	topN        int
	failOnEmpty bool
}

// New creates an engine reading from source and writing to writers.
func New(source service.SalesSource, config Config, writers ...ReportWriter) *Engine {
	defaults := DefaultConfig()
	if config.Clock == nil {
		config.Clock = defaults.Clock
	}
	if config.NewID == nil {
		config.NewID = defaults.NewID
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Engine{
		source:      source,
		writers:     writers,
		clock:       config.Clock,
		newID:       config.NewID,
		logger:      config.Logger,
		topN:        config.TopN,
		failOnEmpty: config.FailOnEmpty,
	}
}

// WithRecorder makes Run record every successful report.
func (e *Engine) WithRecorder(recorder service.RunRecorder) *Engine {
	e.recorder = recorder
	return e
}

// Result is the outcome of a successful run.
type Result struct {
	Workbook *sheets.Workbook
	KPIs     report.KPIs
	// Path is the file written, if any writer produced one.
	Path string
}

// Run executes the pipeline once. Writers run in order; the first failure
// stops the run.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if len(e.writers) == 0 {
		return nil, ErrNoWriters
	}

	sales, err := e.source.LoadSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	e.logger.Info("Loaded sales", "count", len(sales))

	if err := model.ValidateSales(sales); err != nil {
		return nil, fmt.Errorf("sales batch rejected: %w", err)
	}

	runID := e.newID()
	wb, err := sheets.Compose(sales, sheets.ComposeOptions{
		GeneratedAt: e.clock(),
		RunID:       runID,
		TopN:        e.topN,
		FailOnEmpty: e.failOnEmpty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compose report: %w", err)
	}

	result := &Result{
		Workbook: wb,
		KPIs:     report.ComputeKPIs(sales),
	}

	for _, w := range e.writers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.Write(ctx, wb); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		if a, ok := w.(artifact); ok && result.Path == "" {
			result.Path = a.Path()
		}
	}

	e.logger.Info("Report generated",
		"run_id", runID,
		"sales", result.KPIs.Count,
		"revenue", result.KPIs.TotalRevenue.StringFixed(2),
		"path", result.Path)

	e.record(ctx, result)
	return result, nil
}

func (e *Engine) record(ctx context.Context, result *Result) {
	if e.recorder == nil || result.Path == "" {
		return
	}

	run := &service.ReportRun{
		ID:           result.Workbook.ID,
		GeneratedAt:  result.Workbook.GeneratedAt,
		Path:         result.Path,
		SaleCount:    result.KPIs.Count,
		TotalRevenue: result.KPIs.TotalRevenue,
	}
	if err := e.recorder.RecordRun(ctx, run); err != nil {
		e.logger.Warn("Failed to record report run", "run_id", run.ID, "error", err)
	}
}
