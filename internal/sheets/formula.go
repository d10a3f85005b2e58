package sheets

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// FormulaKind selects the aggregate a Formula expresses.
type FormulaKind int

// Formula kinds.
const (
	FormulaSum FormulaKind = iota + 1
	FormulaRatio
)

// CellRef addresses a single cell by 1-based column and row.
type CellRef struct {
	Col int
	Row int
}

// A1 returns the reference in A1 notation, e.g. "G12".
func (c CellRef) A1() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// Range is a rectangular block of cells. A range whose last row is before its
// first row is empty.
type Range struct {
	From CellRef
	To   CellRef
}

// ColumnRange covers rows first..last of one column.
func ColumnRange(col, first, last int) Range {
	return Range{From: CellRef{Col: col, Row: first}, To: CellRef{Col: col, Row: last}}
}

// Empty reports whether the range covers no rows.
func (r Range) Empty() bool {
	return r.To.Row < r.From.Row
}

// A1 returns the range in A1 notation, e.g. "G4:G103".
func (r Range) A1() string {
	return r.From.A1() + ":" + r.To.A1()
}

// Formula is a deferred aggregate: the rendered artifact stores the
// expression, not its value.
type Formula struct {
	Range       Range
	Numerator   CellRef
	Denominator CellRef
	Kind        FormulaKind
}

// Sum aggregates a range.
func Sum(r Range) Formula {
	return Formula{Kind: FormulaSum, Range: r}
}

// Ratio divides one cell by another, yielding 0 when the denominator is 0.
func Ratio(numerator, denominator CellRef) Formula {
	return Formula{Kind: FormulaRatio, Numerator: numerator, Denominator: denominator}
}

// Expression renders the formula without the leading "=".
func (f Formula) Expression() string {
	switch f.Kind {
	case FormulaSum:
		if f.Range.Empty() {
			return "0"
		}
		return fmt.Sprintf("SUM(%s)", f.Range.A1())
	case FormulaRatio:
		return fmt.Sprintf("IFERROR(%s/%s,0)", f.Numerator.A1(), f.Denominator.A1())
	default:
		return ""
	}
}
