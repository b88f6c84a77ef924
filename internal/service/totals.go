package service

import (
	"github.com/shopspring/decimal"

	"github.com/flicky/printdrop/internal/model"
)

// ShippingPolicy charges a flat fee unless the subtotal is strictly above
// the free-shipping threshold.
type ShippingPolicy struct {
	Fee           decimal.Decimal
	FreeThreshold decimal.Decimal
}

func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		Fee:           decimal.RequireFromString("9.99"),
		FreeThreshold: decimal.NewFromInt(50),
	}
}

func (p ShippingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.Fee
}

type Summary struct {
	ItemCount int
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
}

// Summarize totals cart lines using each line's snapshot price. An empty cart
// has no shipping charge.
func Summarize(lines []model.CartLine, policy ShippingPolicy) Summary {
	var s Summary
	for _, l := range lines {
		s.ItemCount += l.Quantity
		s.Subtotal = s.Subtotal.Add(l.LineTotal())
	}
	s.Subtotal = s.Subtotal.Round(2)
	if len(lines) > 0 {
		s.Shipping = policy.ShippingFor(s.Subtotal).Round(2)
	}
	s.Total = s.Subtotal.Add(s.Shipping)
	return s
}
