package report

import (
	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of products listed in the top products table.
const DefaultTopN = 5

// ProductRevenue is one entry of the top products ranking.
type ProductRevenue struct {
	Product string
	Revenue decimal.Decimal
}

// CategorySummary is the rollup of all sales in one category.
type CategorySummary struct {
	Category      string
	TotalRevenue  decimal.Decimal
	SalesCount    int
	TotalQuantity int
}

// SellerSummary is the rollup of all sales made by one seller.
type SellerSummary struct {
	Seller        string
	TotalRevenue  decimal.Decimal
	AverageTicket decimal.Decimal
	SalesCount    int
}

// TopProductsByRevenue ranks products by summed revenue and returns at most n
// of them. Products with equal revenue keep the order in which they first
// appear in sales. A non-positive n selects DefaultTopN.
func TopProductsByRevenue(sales []model.Sale, n int) []ProductRevenue {
	if n <= 0 {
		n = DefaultTopN
	}

	buckets := groupBy(sales, func(s model.Sale) string { return s.Product })
	sortByRevenue(buckets)

	if len(buckets) > n {
		buckets = buckets[:n]
	}

	top := make([]ProductRevenue, 0, len(buckets))
	for _, b := range buckets {
		top = append(top, ProductRevenue{Product: b.key, Revenue: b.revenue})
	}
	return top
}

// ByCategory rolls sales up per category, highest revenue first.
func ByCategory(sales []model.Sale) []CategorySummary {
	buckets := groupBy(sales, func(s model.Sale) string { return s.Category })
	sortByRevenue(buckets)

	rows := make([]CategorySummary, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, CategorySummary{
			Category:      b.key,
			SalesCount:    b.count,
			TotalQuantity: b.quantity,
			TotalRevenue:  b.revenue,
		})
	}
	return rows
}

// BySeller rolls sales up per seller, highest revenue first.
func BySeller(sales []model.Sale) []SellerSummary {
	buckets := groupBy(sales, func(s model.Sale) string { return s.Seller })
	sortByRevenue(buckets)

	rows := make([]SellerSummary, 0, len(buckets))
	for _, b := range buckets {
		// every bucket holds at least one sale
		rows = append(rows, SellerSummary{
			Seller:        b.key,
			SalesCount:    b.count,
			TotalRevenue:  b.revenue,
			AverageTicket: b.revenue.Div(decimal.NewFromInt(int64(b.count))),
		})
	}
	return rows
}
