package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/salesreport/internal/common"
	"github.com/xuri/excelize/v2"
)

// Number formats applied to formatted cells.
const (
	CurrencyNumFmt = `"R$ "#,##0.00`
	DateNumFmt     = "dd/mm/yyyy"
	DateTimeNumFmt = "dd/mm/yyyy hh:mm"
)

const defaultSheet = "Sheet1"

// XLSXWriter renders a Workbook into an .xlsx file.
type XLSXWriter struct {
	logger *slog.Logger
	onRow  func()
	path   string
}

// NewXLSXWriter creates a writer for the file at path.
func NewXLSXWriter(path string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{path: path, logger: logger}
}

// OnRow registers a callback invoked after every row is rendered.
func (w *XLSXWriter) OnRow(fn func()) *XLSXWriter {
	w.onRow = fn
	return w
}

// Path returns the destination of the report.
func (w *XLSXWriter) Path() string {
	return w.path
}

// Write renders wb and saves it. The file is assembled under a temporary
// name in the destination directory and only renamed into place once it has
// been saved completely, so a failed write leaves nothing behind.
func (w *XLSXWriter) Write(ctx context.Context, wb *Workbook) (err error) {
	if len(wb.Sheets) == 0 {
		return common.NewWriteFailure(w.path, fmt.Errorf("workbook has no sheets"))
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".salesreport-*.xlsx")
	if err != nil {
		return common.NewWriteFailure(w.path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			w.logger.Warn("failed to close workbook", "error", closeErr)
		}
	}()

	styles := newStyleCache(f)
	for i := range wb.Sheets {
		if err = ctx.Err(); err != nil {
			return err
		}

		sheet := &wb.Sheets[i]
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			return common.NewWriteFailure(w.path, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err))
		}

		if err = w.renderSheet(f, styles, sheet); err != nil {
			return common.NewWriteFailure(w.path, fmt.Errorf("failed to render sheet %s: %w", sheet.Name, err))
		}

		w.logger.Debug("rendered sheet", "sheet", sheet.Name, "rows", len(sheet.Rows))
	}

	f.SetActiveSheet(0)
	if err = f.SetDocProps(&excelize.DocProperties{
		Title:      wb.Title,
		Creator:    "salesreport",
		Identifier: wb.ID,
		Created:    wb.GeneratedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return common.NewWriteFailure(w.path, err)
	}

	if err = f.Write(tmp); err != nil {
		return common.NewWriteFailure(w.path, err)
	}
	if err = tmp.Close(); err != nil {
		return common.NewWriteFailure(w.path, err)
	}
	if err = os.Rename(tmpName, w.path); err != nil {
		return common.NewWriteFailure(w.path, err)
	}

	w.logger.Info("report saved", "path", w.path, "sheets", len(wb.Sheets), "rows", wb.RowCount())
	return nil
}

func (w *XLSXWriter) renderSheet(f *excelize.File, styles *styleCache, sheet *SheetSpec) error {
	for i, col := range sheet.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		rowNum := r + 1
		for c, cell := range row.Cells {
			ref := CellRef{Col: c + 1, Row: rowNum}.A1()
			if err := setCell(f, sheet.Name, ref, cell); err != nil {
				return fmt.Errorf("cell %s: %w", ref, err)
			}

			styleID, err := styles.get(styleKey{
				palette:   sheet.Palette,
				row:       row.Kind,
				format:    cell.Format,
				bold:      cell.Bold,
				alternate: row.Alternate,
				filled:    row.Kind == RowTotal && cell.Kind != CellEmpty,
			})
			if err != nil {
				return err
			}
			if styleID != 0 {
				if err := f.SetCellStyle(sheet.Name, ref, ref, styleID); err != nil {
					return err
				}
			}
		}

		if (row.Kind == RowTitle || row.Kind == RowSubtitle) && sheet.TitleSpan > 1 {
			end := CellRef{Col: sheet.TitleSpan, Row: rowNum}.A1()
			if err := f.MergeCell(sheet.Name, CellRef{Col: 1, Row: rowNum}.A1(), end); err != nil {
				return err
			}
		}

		if w.onRow != nil {
			w.onRow()
		}
	}

	if sheet.AutoFilter != nil {
		if err := f.AutoFilter(sheet.Name, sheet.AutoFilter.A1(), nil); err != nil {
			return err
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet, ref string, cell Cell) error {
	switch cell.Kind {
	case CellString:
		return f.SetCellStr(sheet, ref, cell.Text)
	case CellInt:
		return f.SetCellValue(sheet, ref, cell.Int)
	case CellDecimal:
		return f.SetCellValue(sheet, ref, cell.Decimal.InexactFloat64())
	case CellTime:
		return f.SetCellValue(sheet, ref, cell.Time)
	case CellFormula:
		if cell.Formula == nil {
			return fmt.Errorf("formula cell without formula")
		}
		return f.SetCellFormula(sheet, ref, cell.Formula.Expression())
	default:
		return nil
	}
}
