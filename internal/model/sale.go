package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a single sale record.
type Sale struct {
	SaleDate  time.Time       `validate:"required"`
	UnitValue decimal.Decimal `validate:"gte=0"`
	Product   string          `validate:"required"`
	Category  string          `validate:"required"`
	Seller    string          `validate:"required"`
	ID        int             `validate:"gt=0"`
	Quantity  int             `validate:"gte=1"`
}

// Total returns Quantity * UnitValue. It is always derived, never stored.
func (s Sale) Total() decimal.Decimal {
	return s.UnitValue.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
