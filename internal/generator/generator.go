// Package generator produces reproducible sample sales for demos and for
// seeding the sales database.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultCount = 100
	DefaultSeed  = 42

	maxQuantity = 19
	maxDaysBack = 89
)

// Product is a catalog entry.
type Product struct {
	Name      string
	Category  string
	UnitValue decimal.Decimal
}

// Catalog is the fixed product list sales are drawn from.
var Catalog = []Product{
	{Name: "Dell Laptop", Category: "Electronics", UnitValue: decimal.RequireFromString("3500.00")},
	{Name: "Logitech Mouse", Category: "Peripherals", UnitValue: decimal.RequireFromString("89.90")},
	{Name: "Mechanical Keyboard", Category: "Peripherals", UnitValue: decimal.RequireFromString("450.00")},
	{Name: `LG 27" Monitor`, Category: "Electronics", UnitValue: decimal.RequireFromString("1200.00")},
	{Name: "Full HD Webcam", Category: "Peripherals", UnitValue: decimal.RequireFromString("280.00")},
	{Name: "Gaming Headset", Category: "Peripherals", UnitValue: decimal.RequireFromString("320.00")},
	{Name: "1TB SSD", Category: "Hardware", UnitValue: decimal.RequireFromString("550.00")},
	{Name: "16GB RAM", Category: "Hardware", UnitValue: decimal.RequireFromString("380.00")},
	{Name: "2TB External HDD", Category: "Hardware", UnitValue: decimal.RequireFromString("420.00")},
	{Name: "Gaming Chair", Category: "Furniture", UnitValue: decimal.RequireFromString("1150.00")},
}

// Sellers is the fixed sales team.
var Sellers = []string{"João Silva", "Maria Santos", "Carlos Oliveira", "Ana Costa"}

// Options controls a generation run.
type Options struct {
	// Now anchors sale dates; the zero value means time.Now().
	Now   time.Time
	Count int
	Seed  int64
}

// Generate returns opts.Count sales numbered from 1, newest first. The same
// seed and anchor always produce the same sales.
func Generate(opts Options) []model.Sale {
	if opts.Count < 0 {
		opts.Count = 0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	rng := rand.New(rand.NewSource(opts.Seed)) // #nosec G404
	sales := make([]model.Sale, 0, opts.Count)

	for i := 1; i <= opts.Count; i++ {
		product := Catalog[rng.Intn(len(Catalog))]
		quantity := 1 + rng.Intn(maxQuantity)
		daysBack := rng.Intn(maxDaysBack + 1)
		seller := Sellers[rng.Intn(len(Sellers))]

		sales = append(sales, model.Sale{
			ID:        i,
			Product:   product.Name,
			Category:  product.Category,
			Quantity:  quantity,
			UnitValue: product.UnitValue,
			SaleDate:  opts.Now.AddDate(0, 0, -daysBack),
			Seller:    seller,
		})
	}

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SaleDate.After(sales[j].SaleDate)
	})

	return sales
}

// Source serves generated sales as a sales source.
type Source struct {
	opts Options
}

// NewSource creates a Source. A zero Count falls back to DefaultCount.
func NewSource(opts Options) *Source {
	if opts.Count == 0 {
		opts.Count = DefaultCount
	}
	return &Source{opts: opts}
}

// LoadSales implements service.SalesSource.
func (s *Source) LoadSales(ctx context.Context) ([]model.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating sales: %w", err)
	}
	return Generate(s.opts), nil
}
