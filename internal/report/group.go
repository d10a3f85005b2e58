package report

import (
	"sort"

	"github.com/Veraticus/salesreport/internal/model"
	"github.com/shopspring/decimal"
)

// bucket accumulates the sales sharing one grouping key.
type bucket struct {
	key      string
	revenue  decimal.Decimal
	count    int
	quantity int
}

// groupBy buckets sales by key in first-seen order. Keys are compared
// exactly, without case or whitespace normalization.
func groupBy(sales []model.Sale, key func(model.Sale) string) []*bucket {
	index := make(map[string]int)
	buckets := make([]*bucket, 0)

	for _, sale := range sales {
		k := key(sale)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, &bucket{key: k, revenue: decimal.Zero})
		}
		b := buckets[i]
		b.count++
		b.quantity += sale.Quantity
		b.revenue = b.revenue.Add(sale.Total())
	}

	return buckets
}

// sortByRevenue orders buckets by descending revenue; ties keep first-seen order.
func sortByRevenue(buckets []*bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].revenue.GreaterThan(buckets[j].revenue)
	})
}
