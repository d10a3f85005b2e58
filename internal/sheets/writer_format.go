package sheets

import (
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// formatRequests builds the batch update requests that style one tab.
func formatRequests(sheetID int64, sheet *SheetSpec) []*sheets.Request {
	colors := palettes[sheet.Palette]
	width := int64(len(sheet.Columns))
	if int64(sheet.TitleSpan) > width {
		width = int64(sheet.TitleSpan)
	}

	var requests []*sheets.Request
	for r, row := range sheet.Rows {
		rowIdx := int64(r)
		switch row.Kind {
		case RowTitle:
			requests = append(requests,
				mergeRequest(sheetID, rowIdx, int64(sheet.TitleSpan)),
				rowStyle(sheetID, rowIdx, width, &sheets.CellFormat{
					TextFormat:          &sheets.TextFormat{Bold: true, FontSize: 16, ForegroundColor: hexColor("#FFFFFF")},
					BackgroundColor:     hexColor(colors.title),
					HorizontalAlignment: "CENTER",
				}, "userEnteredFormat(textFormat,backgroundColor,horizontalAlignment)"))
		case RowSubtitle:
			requests = append(requests,
				mergeRequest(sheetID, rowIdx, int64(sheet.TitleSpan)),
				rowStyle(sheetID, rowIdx, width, &sheets.CellFormat{
					TextFormat:          &sheets.TextFormat{Italic: true},
					HorizontalAlignment: "CENTER",
				}, "userEnteredFormat(textFormat,horizontalAlignment)"))
		case RowHeader:
			requests = append(requests, rowStyle(sheetID, rowIdx, int64(len(row.Cells)), &sheets.CellFormat{
				TextFormat:      &sheets.TextFormat{Bold: true},
				BackgroundColor: hexColor(colors.header),
			}, "userEnteredFormat(textFormat,backgroundColor)"))
		case RowTotal:
			requests = append(requests, rowStyle(sheetID, rowIdx, int64(len(row.Cells)), &sheets.CellFormat{
				TextFormat:      &sheets.TextFormat{Bold: true},
				BackgroundColor: hexColor(totalFill),
			}, "userEnteredFormat(textFormat,backgroundColor)"))
		case RowSection, RowKPI:
			requests = append(requests, rowStyle(sheetID, rowIdx, 1, &sheets.CellFormat{
				TextFormat: &sheets.TextFormat{Bold: true},
			}, "userEnteredFormat.textFormat"))
		}

		if row.Alternate {
			requests = append(requests, rowStyle(sheetID, rowIdx, int64(len(row.Cells)), &sheets.CellFormat{
				BackgroundColor: hexColor(alternateFill),
			}, "userEnteredFormat.backgroundColor"))
		}
	}

	requests = append(requests, numberFormatRequests(sheetID, sheet)...)

	if sheet.AutoFilter != nil {
		requests = append(requests,
			&sheets.Request{
				SetBasicFilter: &sheets.SetBasicFilterRequest{
					Filter: &sheets.BasicFilter{Range: gridRange(sheetID, *sheet.AutoFilter)},
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        sheetID,
						GridProperties: &sheets.GridProperties{FrozenRowCount: int64(sheet.HeaderRow)},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			})
	}

	requests = append(requests, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   width,
			},
		},
	})

	return requests
}

// numberFormatRequests emits one request per vertical run of equally
// formatted cells in a column.
func numberFormatRequests(sheetID int64, sheet *SheetSpec) []*sheets.Request {
	maxCols := 0
	for _, row := range sheet.Rows {
		maxCols = max(maxCols, len(row.Cells))
	}

	var requests []*sheets.Request
	for col := 0; col < maxCols; col++ {
		start, current := -1, FormatNone
		flush := func(end int) {
			if start >= 0 && current != FormatNone {
				requests = append(requests, numberFormatRequest(sheetID, int64(start), int64(end), int64(col), current))
			}
		}

		for r, row := range sheet.Rows {
			format := FormatNone
			if col < len(row.Cells) {
				format = row.Cells[col].Format
			}
			if format != current {
				flush(r)
				start, current = r, format
			}
		}
		flush(len(sheet.Rows))
	}

	return requests
}

func numberFormatRequest(sheetID, startRow, endRow, col int64, format Format) *sheets.Request {
	nf := &sheets.NumberFormat{Pattern: numberFormat(format)}
	switch format {
	case FormatCurrency:
		nf.Type = "CURRENCY"
	case FormatDate:
		nf.Type = "DATE"
	case FormatDateTime:
		nf.Type = "DATE_TIME"
	}

	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: col,
				EndColumnIndex:   col + 1,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{NumberFormat: nf}},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

func rowStyle(sheetID, row, width int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    row,
				EndRowIndex:      row + 1,
				StartColumnIndex: 0,
				EndColumnIndex:   max(width, 1),
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}

func mergeRequest(sheetID, row, span int64) *sheets.Request {
	return &sheets.Request{
		MergeCells: &sheets.MergeCellsRequest{
			MergeType: "MERGE_ALL",
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    row,
				EndRowIndex:      row + 1,
				StartColumnIndex: 0,
				EndColumnIndex:   max(span, 1),
			},
		},
	}
}

// gridRange converts a 1-based inclusive Range to a 0-based half-open GridRange.
func gridRange(sheetID int64, r Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(r.From.Row - 1),
		EndRowIndex:      int64(r.To.Row),
		StartColumnIndex: int64(r.From.Col - 1),
		EndColumnIndex:   int64(r.To.Col),
	}
}

// hexColor parses "#RRGGBB" into a Sheets color.
func hexColor(hex string) *sheets.Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return &sheets.Color{}
	}
	return &sheets.Color{
		Red:   float64(v>>16&0xFF) / 255,
		Green: float64(v>>8&0xFF) / 255,
		Blue:  float64(v&0xFF) / 255,
		Alpha: 1,
	}
}
