package testutil

import (
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// BaseDate is the date of the first sale a SalesBuilder creates.
var BaseDate = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// SalesBuilder builds sale batches with sequential IDs, one day apart.
type SalesBuilder struct {
	sales []model.Sale
}

// NewSalesBuilder creates an empty builder.
func NewSalesBuilder() *SalesBuilder {
	return &SalesBuilder{}
}

// WithSale appends a sale. unitValue must be a valid decimal literal.
func (b *SalesBuilder) WithSale(product, category, seller string, quantity int, unitValue string) *SalesBuilder {
	n := len(b.sales)
	b.sales = append(b.sales, model.Sale{
		ID:        n + 1,
		Product:   product,
		Category:  category,
		Seller:    seller,
		Quantity:  quantity,
		UnitValue: decimal.RequireFromString(unitValue),
		SaleDate:  BaseDate.AddDate(0, 0, n),
	})
	return b
}

// WithThreeSaleScenario appends the reference batch: revenue 55.00 over
// 3 sales and 6 units.
func (b *SalesBuilder) WithThreeSaleScenario() *SalesBuilder {
	return b.
		WithSale("A", "X", "S1", 2, "10").
		WithSale("B", "X", "S1", 1, "5").
		WithSale("A", "Y", "S2", 3, "10")
}

// Build returns a copy of the sales built so far.
func (b *SalesBuilder) Build() []model.Sale {
	out := make([]model.Sale, len(b.sales))
	copy(out, b.sales)
	return out
}
