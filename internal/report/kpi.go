// Package report computes the aggregate views a sales report is built from.
// Every function is pure: inputs are never modified and results are
// recomputed on each call.
package report

import (
	"github.com/Veraticus/salesreport/internal/common"
	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// KPIs holds the headline indicators of a batch of sales.
type KPIs struct {
	TotalRevenue  decimal.Decimal
	AverageTicket decimal.Decimal
	Count         int
	TotalUnits    int
}

// Empty reports whether the KPIs were computed from zero sales.
func (k KPIs) Empty() bool {
	return k.Count == 0
}

// RequireData returns common.ErrEmptyDataset when there were no sales,
// in which case AverageTicket carries the zero placeholder.
func (k KPIs) RequireData() error {
	if k.Empty() {
		return common.ErrEmptyDataset
	}
	return nil
}

// ComputeKPIs sums revenue and units over sales. The average ticket of an
// empty batch is reported as zero.
func ComputeKPIs(sales []model.Sale) KPIs {
	kpis := KPIs{
		Count:         len(sales),
		TotalRevenue:  decimal.Zero,
		AverageTicket: decimal.Zero,
	}

	for _, sale := range sales {
		kpis.TotalRevenue = kpis.TotalRevenue.Add(sale.Total())
		kpis.TotalUnits += sale.Quantity
	}

	if kpis.Count > 0 {
		kpis.AverageTicket = kpis.TotalRevenue.Div(decimal.NewFromInt(int64(kpis.Count)))
	}

	return kpis
}
