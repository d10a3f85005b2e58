package sheets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sheet names, in the order they appear in every workbook.
const (
	SheetSummary    = "Summary"
	SheetDetailed   = "Detailed"
	SheetByCategory = "ByCategory"
	SheetBySeller   = "BySeller"
)

// CellKind tags the variant stored in a Cell.
type CellKind int

// Cell variants.
const (
	CellEmpty CellKind = iota
	CellString
	CellInt
	CellDecimal
	CellTime
	CellFormula
)

// Format is a presentation hint for the writer.
type Format int

// Formats.
const (
	FormatNone Format = iota
	FormatCurrency
	FormatDate
	FormatDateTime
)

// RowKind describes the role of a row in a sheet.
type RowKind int

// Row kinds.
const (
	RowSpacer RowKind = iota
	RowTitle
	RowSubtitle
	RowSection
	RowHeader
	RowKPI
	RowData
	RowTotal
)

// Palette picks the accent colors a writer uses for a sheet's title and header.
type Palette int

// Palettes.
const (
	PaletteBlue Palette = iota
	PaletteGreen
	PaletteOrange
)

// Cell is a single typed value. Only the field matching Kind is meaningful.
type Cell struct {
	Time    time.Time
	Decimal decimal.Decimal
	Formula *Formula
	Text    string
	Int     int64
	Kind    CellKind
	Format  Format
	Bold    bool
}

// Row is an ordered list of cells.
type Row struct {
	Cells []Cell
	Kind  RowKind
	// Alternate marks detail rows that get the banded background.
	Alternate bool
}

// Column describes one column of a sheet.
type Column struct {
	Header string
	Width  float64
}

// SheetSpec is the complete, writer-independent description of one sheet.
// Row i of Rows is rendered on spreadsheet row i+1.
type SheetSpec struct {
	// AutoFilter, when set, covers the header and data rows.
	AutoFilter *Range
	Name       string
	Title      string
	Columns    []Column
	Rows       []Row
	// HeaderRow is the 1-based row holding the column headers, 0 if none.
	HeaderRow int
	// TitleSpan is the number of columns the title and subtitle rows are merged across.
	TitleSpan int
	Palette   Palette
}

// Workbook is the ordered set of sheets making up a report.
type Workbook struct {
	GeneratedAt time.Time
	ID          string
	Title       string
	Sheets      []SheetSpec
}

// Sheet returns the sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *SheetSpec {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}

// RowCount is the number of rows across all sheets.
func (w *Workbook) RowCount() int {
	total := 0
	for _, s := range w.Sheets {
		total += len(s.Rows)
	}
	return total
}

// Text builds a string cell.
func Text(s string) Cell {
	return Cell{Kind: CellString, Text: s}
}

// Int builds an integer cell.
func Int(n int) Cell {
	return Cell{Kind: CellInt, Int: int64(n)}
}

// Money builds a decimal cell rendered as currency.
func Money(d decimal.Decimal) Cell {
	return Cell{Kind: CellDecimal, Decimal: d, Format: FormatCurrency}
}

// Date builds a time cell rendered as a date.
func Date(t time.Time) Cell {
	return Cell{Kind: CellTime, Time: t, Format: FormatDate}
}

// FormulaCell builds a deferred aggregate cell.
func FormulaCell(f Formula, format Format) Cell {
	return Cell{Kind: CellFormula, Formula: &f, Format: format}
}

// Empty builds a blank cell.
func Empty() Cell {
	return Cell{Kind: CellEmpty}
}

// Bolded returns c with the bold flag set.
func (c Cell) Bolded() Cell {
	c.Bold = true
	return c
}
