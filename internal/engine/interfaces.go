package engine

import (
	"context"

	"github.com/Veraticus/salesreport/internal/sheets"
)

// ReportWriter renders a composed workbook somewhere.
type ReportWriter interface {
	Write(ctx context.Context, wb *sheets.Workbook) error
}

// artifact is implemented by writers that produce a file.
type artifact interface {
	Path() string
}
