package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/salesreport/internal/common"
	"github.com/Veraticus/salesreport/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer renders a Workbook into a Google Sheets spreadsheet, one tab per sheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriterWithService(srv, config, logger), nil
}

func newWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write uploads every sheet of wb, replacing the previous contents of the tabs.
func (w *Writer) Write(ctx context.Context, wb *Workbook) error {
	w.logger.Info("starting spreadsheet export",
		"workbook", wb.ID,
		"sheets", len(wb.Sheets),
		"rows", wb.RowCount())

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	var tabs map[string]int64
	err := common.WithRetry(ctx, func() error {
		var prepErr error
		spreadsheetID, tabs, prepErr = w.prepareSpreadsheet(ctx, wb)
		return classifyAPIError(prepErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to prepare spreadsheet: %w", err)
	}

	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.writeSheet(ctx, spreadsheetID, sheet))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}

	if w.config.EnableFormatting {
		var requests []*sheets.Request
		for i := range wb.Sheets {
			requests = append(requests, formatRequests(tabs[wb.Sheets[i].Name], &wb.Sheets[i])...)
		}
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, requests))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("spreadsheet export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", wb.RowCount())

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// prepareSpreadsheet returns the target spreadsheet and the tab ID for every
// sheet of wb, creating the spreadsheet or missing tabs as needed.
func (w *Writer) prepareSpreadsheet(ctx context.Context, wb *Workbook) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		return w.createSpreadsheet(ctx, wb)
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	tabs := tabIDs(existing.Sheets)
	var add []*sheets.Request
	for _, s := range wb.Sheets {
		if _, ok := tabs[s.Name]; !ok {
			add = append(add, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.Name}},
			})
		}
	}

	if len(add) > 0 {
		resp, err := w.service.Spreadsheets.BatchUpdate(w.config.SpreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{Requests: add}).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to add tabs: %w", err)
		}
		for _, reply := range resp.Replies {
			if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
				tabs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
			}
		}
	}

	return w.config.SpreadsheetID, tabs, nil
}

func (w *Writer) createSpreadsheet(ctx context.Context, wb *Workbook) (string, map[string]int64, error) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}
	for _, s := range wb.Sheets {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: s.Name},
		})
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// later writes reuse the spreadsheet instead of creating another one
	w.config.SpreadsheetID = created.SpreadsheetId

	return created.SpreadsheetId, tabIDs(created.Sheets), nil
}

func tabIDs(tabs []*sheets.Sheet) map[string]int64 {
	ids := make(map[string]int64, len(tabs))
	for _, t := range tabs {
		if t.Properties != nil {
			ids[t.Properties.Title] = t.Properties.SheetId
		}
	}
	return ids
}

// writeSheet clears a tab and writes its values in batches.
func (w *Writer) writeSheet(ctx context.Context, spreadsheetID string, sheet *SheetSpec) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tabRange(sheet.Name, "A:Z"), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear tab: %w", err)
	}

	values := sheetValues(sheet)
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, tabRange(sheet.Name, fmt.Sprintf("A%d", i+1)),
			&sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "sheet", sheet.Name, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}

func tabRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", tab, cells)
}

// sheetValues converts a sheet into the row-major values the Sheets API expects.
// Formulas are sent as "=..." so USER_ENTERED input keeps them live.
func sheetValues(sheet *SheetSpec) [][]any {
	values := make([][]any, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		line := make([]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			line = append(line, cellValue(cell))
		}
		values = append(values, line)
	}
	return values
}

func cellValue(cell Cell) any {
	switch cell.Kind {
	case CellString:
		return cell.Text
	case CellInt:
		return cell.Int
	case CellDecimal:
		return cell.Decimal.InexactFloat64()
	case CellTime:
		if cell.Format == FormatDateTime {
			return cell.Time.Format("2006-01-02 15:04:05")
		}
		return cell.Time.Format("2006-01-02")
	case CellFormula:
		if cell.Formula == nil {
			return ""
		}
		return "=" + cell.Formula.Expression()
	default:
		return ""
	}
}

// classifyAPIError marks client errors as permanent and rate limits as such,
// leaving the rest to be retried.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return common.Permanent(err)
	}
}
