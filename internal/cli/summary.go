package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/salesreport/internal/report"
	"github.com/Veraticus/salesreport/internal/service"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the way the workbook displays it.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "." + frac
}

func kv(label, value string) string {
	return LabelStyle.Render(label) + BoldStyle.Render(value)
}

// RenderKPIs renders the report headline numbers in a box.
func RenderKPIs(k report.KPIs, path string) string {
	lines := []string{
		kv("Total Sales", fmt.Sprintf("%d", k.Count)),
		kv("Total Revenue", FormatMoney(k.TotalRevenue)),
		kv("Average Ticket", FormatMoney(k.AverageTicket)),
		kv("Products Sold", fmt.Sprintf("%d", k.TotalUnits)),
	}
	if path != "" {
		lines = append(lines, "", SubtleStyle.Render(FolderIcon+" "+path))
	}
	return RenderBox("Sales Report", strings.Join(lines, "\n"))
}

// RenderRuns lists past report runs, newest first.
func RenderRuns(runs []service.ReportRun) string {
	if len(runs) == 0 {
		return FormatInfo("No reports generated yet")
	}

	lines := make([]string, 0, len(runs))
	for _, run := range runs {
		lines = append(lines, fmt.Sprintf("%s  %s  %4d sales  %s",
			SubtleStyle.Render(run.GeneratedAt.Format("02/01/2006 15:04")),
			BoldStyle.Render(FormatMoney(run.TotalRevenue)),
			run.SaleCount,
			run.Path,
		))
	}
	return RenderBox("Report History", strings.Join(lines, "\n"))
}
