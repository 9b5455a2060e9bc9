package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing holds the fixed rates applied to every cart. Tax applies to
// the subtotal only, never to shipping.
type Pricing struct {
	TaxRate           decimal.Decimal
	FlatShippingRate  decimal.Decimal
	FreeShippingAbove decimal.Decimal
}

// DefaultPricing: 12% tax, $5 flat shipping, free over $100.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:           decimal.RequireFromString("0.12"),
		FlatShippingRate:  decimal.RequireFromString("5.00"),
		FreeShippingAbove: decimal.RequireFromString("100.00"),
	}
}

// ParsePricing builds a Pricing from decimal strings.
func ParsePricing(taxRate, flatRate, freeAbove string) (Pricing, error) {
	tax, err := decimal.NewFromString(taxRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("cart: tax rate %q: %w", taxRate, err)
	}
	flat, err := decimal.NewFromString(flatRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("cart: flat shipping rate %q: %w", flatRate, err)
	}
	free, err := decimal.NewFromString(freeAbove)
	if err != nil {
		return Pricing{}, fmt.Errorf("cart: free shipping threshold %q: %w", freeAbove, err)
	}
	return Pricing{TaxRate: tax, FlatShippingRate: flat, FreeShippingAbove: free}, nil
}

func (p Pricing) totals(subtotal decimal.Decimal) Totals {
	shipping := p.FlatShippingRate
	if subtotal.IsZero() || subtotal.GreaterThan(p.FreeShippingAbove) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)

	return Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal.Add(shipping).Add(tax),
	}
}
