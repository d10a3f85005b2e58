package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSale(id int) Sale {
	return Sale{
		ID:        id,
		Product:   "1TB SSD",
		Category:  "Hardware",
		Quantity:  2,
		UnitValue: decimal.RequireFromString("550.00"),
		SaleDate:  time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC),
		Seller:    "Ana Costa",
	}
}

func TestSale_Total(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		want     string
		quantity int
	}{
		{name: "whole amounts", quantity: 3, unit: "10.00", want: "30"},
		{name: "cents", quantity: 7, unit: "89.90", want: "629.3"},
		{name: "free item", quantity: 5, unit: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := Sale{Quantity: tt.quantity, UnitValue: decimal.RequireFromString(tt.unit)}
			assert.True(t, sale.Total().Equal(decimal.RequireFromString(tt.want)), "got %s", sale.Total())
		})
	}
}

func TestSale_TotalTracksFields(t *testing.T) {
	sale := validSale(1)
	before := sale.Total()

	sale.Quantity = 4
	assert.True(t, sale.Total().Equal(before.Mul(decimal.NewFromInt(2))))
}

func TestSale_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Sale)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Sale) {}},
		{name: "zero id", mutate: func(s *Sale) { s.ID = 0 }, wantErr: true},
		{name: "empty product", mutate: func(s *Sale) { s.Product = "" }, wantErr: true},
		{name: "empty category", mutate: func(s *Sale) { s.Category = "" }, wantErr: true},
		{name: "empty seller", mutate: func(s *Sale) { s.Seller = "" }, wantErr: true},
		{name: "zero quantity", mutate: func(s *Sale) { s.Quantity = 0 }, wantErr: true},
		{name: "negative unit value", mutate: func(s *Sale) { s.UnitValue = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "zero unit value", mutate: func(s *Sale) { s.UnitValue = decimal.Zero }},
		{name: "missing date", mutate: func(s *Sale) { s.SaleDate = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := validSale(1)
			tt.mutate(&sale)

			err := sale.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSale)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSales(t *testing.T) {
	t.Run("empty batch is valid", func(t *testing.T) {
		assert.NoError(t, ValidateSales(nil))
	})

	t.Run("duplicate ids", func(t *testing.T) {
		err := ValidateSales([]Sale{validSale(1), validSale(2), validSale(1)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSale)
		assert.Contains(t, err.Error(), "index 2")
	})

	t.Run("reports offending index", func(t *testing.T) {
		bad := validSale(3)
		bad.Quantity = 0
		err := ValidateSales([]Sale{validSale(1), validSale(2), bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index 2")
		assert.Contains(t, err.Error(), "Quantity")
	})
}
