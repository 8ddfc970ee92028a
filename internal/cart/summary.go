package cart

import (
	"math"

	"bolpur-mart/internal/model"
)

// Pricing holds the business constants used to derive a cart summary.
type Pricing struct {
	// FreeDeliveryThreshold is the subtotal at or above which delivery is free.
	FreeDeliveryThreshold float64
	DeliveryFee           float64
	TaxRate               float64
}

// DefaultPricing is the canonical storefront rule set.
func DefaultPricing() Pricing {
	return Pricing{
		FreeDeliveryThreshold: 299,
		DeliveryFee:           30,
		TaxRate:               0.05,
	}
}

// DeliveryFeeFor returns the delivery fee charged on subtotal.
func (p Pricing) DeliveryFeeFor(subtotal float64) float64 {
	if subtotal >= p.FreeDeliveryThreshold {
		return 0
	}
	return p.DeliveryFee
}

// TaxesFor returns the tax on subtotal rounded half away from zero.
func (p Pricing) TaxesFor(subtotal float64) float64 {
	return math.Round(subtotal * p.TaxRate)
}

// Summarize derives the cart totals. products is keyed by product id; an item
// whose product is missing still counts toward ItemCount but adds nothing to
// the subtotal.
func Summarize(items []model.CartItem, products map[string]model.Product, pricing Pricing) model.CartSummary {
	var summary model.CartSummary
	for _, item := range items {
		summary.ItemCount += item.Quantity
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		summary.Subtotal += product.EffectivePrice() * float64(item.Quantity)
	}

	summary.DeliveryFee = pricing.DeliveryFeeFor(summary.Subtotal)
	summary.Taxes = pricing.TaxesFor(summary.Subtotal)
	summary.Total = summary.Subtotal + summary.DeliveryFee + summary.Taxes
	return summary
}
