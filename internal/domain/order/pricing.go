package order

import "github.com/shopspring/decimal"

// Shipping is free above the threshold, flat below it.
// Tax is GST at 18%, rounded to the nearest rupee.
var (
	freeShippingThreshold = decimal.NewFromInt(499)
	flatShippingFee       = decimal.NewFromInt(40)
	taxRate               = decimal.NewFromFloat(0.18)
)

// Pricing is the server-computed amount breakdown of an order
type Pricing struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// ComputePricing derives shipping, tax and total from a subtotal
func ComputePricing(subtotal decimal.Decimal) Pricing {
	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate).Round(0)

	return Pricing{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}
