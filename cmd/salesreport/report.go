package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/salesreport/internal/cli"
	"github.com/Veraticus/salesreport/internal/common"
	"github.com/Veraticus/salesreport/internal/config"
	"github.com/Veraticus/salesreport/internal/engine"
	"github.com/Veraticus/salesreport/internal/generator"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/Veraticus/salesreport/internal/sheets"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the sales workbook",
		Long: `Generate Sales_Report_<timestamp>.xlsx from generated or stored sales.

The workbook has four sheets: Summary, Detailed, ByCategory and BySeller.
With --export-sheets the same report is also written to Google Sheets.`,
		RunE: runReport,
	}

	cmd.Flags().String("source", config.SourceGenerated, "where sales come from (generated, sqlite)")
	cmd.Flags().Int("count", config.DefaultCount, "number of generated sales")
	cmd.Flags().Int64("seed", config.DefaultSeed, "generator seed")
	cmd.Flags().Int("top", config.DefaultTopN, "length of the top products table")
	cmd.Flags().String("output-dir", config.DefaultOutputDir, "directory for the .xlsx file")
	cmd.Flags().Bool("fail-on-empty", false, "fail instead of writing a report with no sales")
	cmd.Flags().Bool("export-sheets", false, "also export the report to Google Sheets")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := bindFlags(cmd, map[string]string{
		"source":        "report.source",
		"count":         "report.count",
		"seed":          "report.seed",
		"top":           "report.top_n",
		"output-dir":    "report.output_dir",
		"fail-on-empty": "report.fail_on_empty",
		"export-sheets": "report.export_sheets",
	}); err != nil {
		return err
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var source service.SalesSource = store
	if cfg.Source == config.SourceGenerated {
		source = generator.NewSource(generator.Options{Count: cfg.Count, Seed: cfg.Seed})
	}

	now := time.Now()
	path := engine.ReportPath(cfg.OutputDir, now)
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return common.NewWriteFailure(path, err)
	}

	out := cmd.OutOrStdout()
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	xlsx := sheets.NewXLSXWriter(path, slog.Default())
	writers := []engine.ReportWriter{xlsx}
	if !noProgress {
		writers[0] = &progressWriter{xlsx: xlsx, out: cmd.ErrOrStderr()}
	}

	if cfg.ExportSheets {
		sheetsWriter, err := newSheetsWriter(ctx)
		if err != nil {
			return err
		}
		writers = append(writers, sheetsWriter)
	}

	eng := engine.New(source, engine.Config{
		Clock:       func() time.Time { return now },
		Logger:      slog.Default(),
		TopN:        cfg.TopN,
		FailOnEmpty: cfg.FailOnEmpty,
	}, writers...).WithRecorder(store)

	fmt.Fprintln(out, cli.FormatTitle("Generating sales report"))

	result, err := eng.Run(ctx)
	if err != nil {
		if errors.Is(err, common.ErrEmptyDataset) {
			return common.NewUserError("No sales to report. Run 'salesreport seed' or use --source generated", err)
		}
		return err
	}

	fmt.Fprintln(out, cli.RenderKPIs(result.KPIs, result.Path))
	if cfg.ExportSheets {
		fmt.Fprintln(out, cli.FormatSuccess("Exported to Google Sheets"))
	}
	return nil
}

func newSheetsWriter(ctx context.Context) (*sheets.Writer, error) {
	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured. Run 'salesreport auth sheets' first", err)
	}
	return sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
}

// progressWriter shows a row progress bar while the xlsx file is written.
type progressWriter struct {
	xlsx *sheets.XLSXWriter
	out  io.Writer
}

func (p *progressWriter) Write(ctx context.Context, wb *sheets.Workbook) error {
	bar := cli.NewProgress(p.out, wb.RowCount(), "Writing workbook...", slog.Default())
	if err := p.xlsx.OnRow(bar.Increment).Write(ctx, wb); err != nil {
		return err
	}
	bar.Finish()
	return nil
}

func (p *progressWriter) Path() string {
	return p.xlsx.Path()
}
