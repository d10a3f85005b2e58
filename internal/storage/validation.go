package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/service"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidLimit     = errors.New("limit cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateSales(sales []model.Sale) error {
	if sales == nil {
		return fmt.Errorf("%w: sales", ErrNilParameter)
	}
	if len(sales) == 0 {
		return fmt.Errorf("%w: sales", ErrEmptySlice)
	}
	return model.ValidateSales(sales)
}

func validateFilter(filter service.SaleFilter) error {
	if filter.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, filter.Limit)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidDateRange, filter.EndDate.Format(time.DateOnly), filter.StartDate.Format(time.DateOnly))
	}
	return nil
}

func validateRun(run *service.ReportRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}
	if err := validateString(run.Path, "run.Path"); err != nil {
		return err
	}
	if run.GeneratedAt.IsZero() {
		return fmt.Errorf("%w: run.GeneratedAt", ErrNilParameter)
	}
	return nil
}
