package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress is a row counter shown while a workbook is rendered.
type Progress struct {
	bar    *progressbar.ProgressBar
	logger *slog.Logger
}

// NewProgress creates a progress bar for total rows written to w.
func NewProgress(w io.Writer, total int, description string, logger *slog.Logger) *Progress {
	if logger == nil {
		logger = slog.Default()
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				logger.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &Progress{bar: bar, logger: logger}
}

// Increment advances the bar by one row.
func (p *Progress) Increment() {
	if err := p.bar.Add(1); err != nil {
		p.logger.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish fills the bar.
func (p *Progress) Finish() {
	if err := p.bar.Finish(); err != nil {
		p.logger.Warn("Failed to finish progress bar", "error", err)
	}
}

// Count returns the rows counted so far.
func (p *Progress) Count() int {
	return int(p.bar.State().CurrentNum)
}
