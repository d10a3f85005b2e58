package model

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidSale is returned when a sale record violates the record schema.
var ErrInvalidSale = errors.New("invalid sale")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func saleValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Decimals validate as their float value so numeric tags apply.
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Validate checks a single sale against the record schema.
func (s Sale) Validate() error {
	if err := saleValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: id %d: field %s failed %q", ErrInvalidSale, s.ID, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: id %d: %v", ErrInvalidSale, s.ID, err)
	}
	return nil
}

// ValidateSales validates every sale and checks that IDs are unique within the batch.
func ValidateSales(sales []Sale) error {
	seen := make(map[int]struct{}, len(sales))
	for i, sale := range sales {
		if err := sale.Validate(); err != nil {
			return fmt.Errorf("sale at index %d: %w", i, err)
		}
		if _, dup := seen[sale.ID]; dup {
			return fmt.Errorf("sale at index %d: %w: duplicate id %d", i, ErrInvalidSale, sale.ID)
		}
		seen[sale.ID] = struct{}{}
	}
	return nil
}
