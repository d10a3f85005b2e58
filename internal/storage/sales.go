package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/shopspring/decimal"
)

// SaveSales inserts or replaces sales in one transaction. Sales are
// validated as a batch first, so nothing is written for an invalid batch.
func (s *SQLiteStorage) SaveSales(ctx context.Context, sales []model.Sale) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSales(sales); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO sales (
				id, product, category, quantity, unit_value, sale_date, seller
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, sale := range sales {
			_, err = stmt.ExecContext(ctx,
				sale.ID,
				sale.Product,
				sale.Category,
				sale.Quantity,
				sale.UnitValue.String(),
				sale.SaleDate,
				sale.Seller,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sale %d: %w", sale.ID, err)
			}
		}
		return nil
	})
}

// GetSales returns sales matching filter, newest first.
func (s *SQLiteStorage) GetSales(ctx context.Context, filter service.SaleFilter) ([]model.Sale, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.StartDate != nil {
		where = append(where, "sale_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, "sale_date <= ?")
		args = append(args, *filter.EndDate)
	}

	query := `SELECT id, product, category, quantity, unit_value, sale_date, seller FROM sales`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sale_date DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sales []model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	return sales, nil
}

// LoadSales implements service.SalesSource with every stored sale.
func (s *SQLiteStorage) LoadSales(ctx context.Context) ([]model.Sale, error) {
	return s.GetSales(ctx, service.SaleFilter{})
}

// CountSales returns the number of stored sales.
func (s *SQLiteStorage) CountSales(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return count, nil
}

// DeleteAllSales empties the sales table.
func (s *SQLiteStorage) DeleteAllSales(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to delete sales: %w", err)
	}
	return nil
}

func scanSale(rows *sql.Rows) (model.Sale, error) {
	var (
		sale      model.Sale
		unitValue string
		saleDate  time.Time
	)
	if err := rows.Scan(
		&sale.ID,
		&sale.Product,
		&sale.Category,
		&sale.Quantity,
		&unitValue,
		&saleDate,
		&sale.Seller,
	); err != nil {
		return model.Sale{}, fmt.Errorf("failed to scan sale: %w", err)
	}

	value, err := decimal.NewFromString(unitValue)
	if err != nil {
		return model.Sale{}, fmt.Errorf("sale %d has invalid unit value %q: %w", sale.ID, unitValue, err)
	}
	sale.UnitValue = value
	sale.SaleDate = saleDate

	return sale, nil
}
