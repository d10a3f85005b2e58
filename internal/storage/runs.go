package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/salesreport/internal/service"
	"github.com/shopspring/decimal"
)

// RecordRun stores the outcome of a report run.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run *service.ReportRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_runs (id, generated_at, path, sale_count, total_revenue)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.GeneratedAt, run.Path, run.SaleCount, run.TotalRevenue.String())
	if err != nil {
		return fmt.Errorf("failed to record report run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. A limit of zero returns all.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, limit int) ([]service.ReportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	query := `SELECT id, generated_at, path, sale_count, total_revenue FROM report_runs ORDER BY generated_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []service.ReportRun
	for rows.Next() {
		var (
			run     service.ReportRun
			revenue string
		)
		if err := rows.Scan(&run.ID, &run.GeneratedAt, &run.Path, &run.SaleCount, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		if run.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, fmt.Errorf("report run %s has invalid revenue %q: %w", run.ID, revenue, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report runs: %w", err)
	}

	return runs, nil
}
