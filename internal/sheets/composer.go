package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/Veraticus/salesreport/internal/report"
)

// Row numbers shared by the tabular sheets.
const (
	tableHeaderRow  = 3
	tableFirstRow   = 4
	detailTotalCol  = 7
	detailFilterEnd = 8
)

// ComposeOptions controls report composition.
type ComposeOptions struct {
	// GeneratedAt is stamped on the summary sheet.
	GeneratedAt time.Time
	// RunID identifies the workbook; it is not rendered in any cell.
	RunID string
	// TopN is the length of the top products table; zero selects report.DefaultTopN.
	TopN int
	// FailOnEmpty makes Compose return common.ErrEmptyDataset for an empty batch
	// instead of a report with zero-valued KPIs.
	FailOnEmpty bool
}

// Compose lays sales out as the four report sheets. The order of sales is
// preserved on the detailed sheet. Compose never mutates sales and returns
// identical workbooks for identical inputs.
func Compose(sales []model.Sale, opts ComposeOptions) (*Workbook, error) {
	kpis := report.ComputeKPIs(sales)
	if opts.FailOnEmpty {
		if err := kpis.RequireData(); err != nil {
			return nil, err
		}
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = report.DefaultTopN
	}

	return &Workbook{
		ID:          opts.RunID,
		Title:       "Sales Report",
		GeneratedAt: opts.GeneratedAt,
		Sheets: []SheetSpec{
			summarySheet(kpis, report.TopProductsByRevenue(sales, topN), topN, opts.GeneratedAt),
			detailedSheet(sales),
			categorySheet(report.ByCategory(sales)),
			sellerSheet(report.BySeller(sales)),
		},
	}, nil
}

func titleRow(title string) Row {
	return Row{Kind: RowTitle, Cells: []Cell{Text(title).Bolded()}}
}

func spacer() Row {
	return Row{Kind: RowSpacer}
}

func headerRow(columns []Column) Row {
	cells := make([]Cell, 0, len(columns))
	for _, c := range columns {
		cells = append(cells, Text(c.Header).Bolded())
	}
	return Row{Kind: RowHeader, Cells: cells}
}

func boldAll(cells ...Cell) []Cell {
	for i := range cells {
		if cells[i].Kind != CellEmpty {
			cells[i].Bold = true
		}
	}
	return cells
}

func summarySheet(kpis report.KPIs, top []report.ProductRevenue, topN int, generatedAt time.Time) SheetSpec {
	columns := []Column{
		{Header: "Product", Width: 28},
		{Header: "Revenue", Width: 20},
	}

	rows := []Row{
		titleRow("SALES REPORT"),
		{Kind: RowSubtitle, Cells: []Cell{Text("Created in: " + generatedAt.Format("02/01/2006 15:04"))}},
		spacer(),
		{Kind: RowKPI, Cells: []Cell{Text("Total Sales").Bolded(), Int(kpis.Count)}},
		{Kind: RowKPI, Cells: []Cell{Text("Total Revenue").Bolded(), Money(kpis.TotalRevenue)}},
		{Kind: RowKPI, Cells: []Cell{Text("Average Ticket").Bolded(), Money(kpis.AverageTicket)}},
		{Kind: RowKPI, Cells: []Cell{Text("Products Sold").Bolded(), Int(kpis.TotalUnits)}},
		spacer(),
		spacer(),
		{Kind: RowSection, Cells: []Cell{Text(fmt.Sprintf("TOP %d SELLING PRODUCTS", topN)).Bolded()}},
		headerRow(columns),
	}
	headerAt := len(rows)

	for _, p := range top {
		rows = append(rows, Row{Kind: RowData, Cells: []Cell{Text(p.Product), Money(p.Revenue)}})
	}

	return SheetSpec{
		Name:      SheetSummary,
		Title:     "SALES REPORT",
		Columns:   columns,
		Rows:      rows,
		HeaderRow: headerAt,
		TitleSpan: 4,
		Palette:   PaletteBlue,
	}
}

func detailedSheet(sales []model.Sale) SheetSpec {
	columns := []Column{
		{Header: "ID", Width: 8},
		{Header: "Date", Width: 12},
		{Header: "Product", Width: 24},
		{Header: "Category", Width: 14},
		{Header: "Qty", Width: 8},
		{Header: "Unit Price", Width: 16},
		{Header: "Total", Width: 18},
		{Header: "Seller", Width: 18},
	}

	rows := make([]Row, 0, len(sales)+4)
	rows = append(rows, titleRow("DETAILED SALES REPORT"), spacer(), headerRow(columns))

	for i, sale := range sales {
		rowNum := tableFirstRow + i
		rows = append(rows, Row{
			Kind:      RowData,
			Alternate: rowNum%2 == 0,
			Cells: []Cell{
				Int(sale.ID),
				Date(sale.SaleDate),
				Text(sale.Product),
				Text(sale.Category),
				Int(sale.Quantity),
				Money(sale.UnitValue),
				Money(sale.Total()),
				Text(sale.Seller),
			},
		})
	}

	totalRow := tableFirstRow + len(sales)
	grandTotal := Sum(ColumnRange(detailTotalCol, tableFirstRow, totalRow-1))
	rows = append(rows, Row{
		Kind: RowTotal,
		Cells: []Cell{
			Empty(), Empty(), Empty(), Empty(), Empty(),
			Text("GRAND TOTAL:").Bolded(),
			FormulaCell(grandTotal, FormatCurrency).Bolded(),
			Empty(),
		},
	})

	return SheetSpec{
		Name:      SheetDetailed,
		Title:     "DETAILED SALES REPORT",
		Columns:   columns,
		Rows:      rows,
		HeaderRow: tableHeaderRow,
		TitleSpan: len(columns),
		Palette:   PaletteBlue,
		AutoFilter: &Range{
			From: CellRef{Col: 1, Row: tableHeaderRow},
			To:   CellRef{Col: detailFilterEnd, Row: totalRow},
		},
	}
}

func categorySheet(summaries []report.CategorySummary) SheetSpec {
	columns := []Column{
		{Header: "Category", Width: 18},
		{Header: "No. of Sales", Width: 14},
		{Header: "Qty. Products", Width: 14},
		{Header: "Revenue", Width: 18},
	}

	rows := make([]Row, 0, len(summaries)+4)
	rows = append(rows, titleRow("SALES BY CATEGORY"), spacer(), headerRow(columns))

	for _, s := range summaries {
		rows = append(rows, Row{
			Kind:  RowData,
			Cells: []Cell{Text(s.Category), Int(s.SalesCount), Int(s.TotalQuantity), Money(s.TotalRevenue)},
		})
	}

	last := tableFirstRow + len(summaries) - 1
	rows = append(rows, Row{
		Kind: RowTotal,
		Cells: boldAll(
			Text("TOTAL"),
			FormulaCell(Sum(ColumnRange(2, tableFirstRow, last)), FormatNone),
			FormulaCell(Sum(ColumnRange(3, tableFirstRow, last)), FormatNone),
			FormulaCell(Sum(ColumnRange(4, tableFirstRow, last)), FormatCurrency),
		),
	})

	return SheetSpec{
		Name:      SheetByCategory,
		Title:     "SALES BY CATEGORY",
		Columns:   columns,
		Rows:      rows,
		HeaderRow: tableHeaderRow,
		TitleSpan: len(columns),
		Palette:   PaletteGreen,
	}
}

func sellerSheet(summaries []report.SellerSummary) SheetSpec {
	columns := []Column{
		{Header: "Seller", Width: 20},
		{Header: "No. of Sales", Width: 14},
		{Header: "Revenue", Width: 18},
		{Header: "Average Ticket", Width: 18},
	}

	rows := make([]Row, 0, len(summaries)+4)
	rows = append(rows, titleRow("PERFORMANCE BY SELLER"), spacer(), headerRow(columns))

	for _, s := range summaries {
		rows = append(rows, Row{
			Kind:  RowData,
			Cells: []Cell{Text(s.Seller), Int(s.SalesCount), Money(s.TotalRevenue), Money(s.AverageTicket)},
		})
	}

	totalRow := tableFirstRow + len(summaries)
	rows = append(rows, Row{
		Kind: RowTotal,
		Cells: boldAll(
			Text("TOTAL"),
			FormulaCell(Sum(ColumnRange(2, tableFirstRow, totalRow-1)), FormatNone),
			FormulaCell(Sum(ColumnRange(3, tableFirstRow, totalRow-1)), FormatCurrency),
			FormulaCell(Ratio(CellRef{Col: 3, Row: totalRow}, CellRef{Col: 2, Row: totalRow}), FormatCurrency),
		),
	})

	return SheetSpec{
		Name:      SheetBySeller,
		Title:     "PERFORMANCE BY SELLER",
		Columns:   columns,
		Rows:      rows,
		HeaderRow: tableHeaderRow,
		TitleSpan: len(columns),
		Palette:   PaletteOrange,
	}
}
