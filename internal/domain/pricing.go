package domain

import "math"

// PricingPolicy holds the storefront's shipping and tax parameters.
// Free shipping applies only when the subtotal strictly exceeds the threshold.
type PricingPolicy struct {
	FreeShippingThresholdCents int64
	FlatShippingCents          int64
	TaxRate                    float64
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThresholdCents: 10000,
		FlatShippingCents:          1000,
		TaxRate:                    0.08,
	}
}

func SummarizeCart(items []CartItem, policy PricingPolicy) CartSummary {
	var summary CartSummary
	for _, item := range items {
		summary.SubtotalCents += item.Product.PriceCents * int64(item.Quantity)
		summary.ItemCount += item.Quantity
	}
	summary.ShippingCents = policy.ShippingFor(summary.SubtotalCents)
	summary.TaxCents = policy.TaxFor(summary.SubtotalCents)
	summary.TotalCents = summary.SubtotalCents + summary.ShippingCents + summary.TaxCents
	return summary
}

func (p PricingPolicy) ShippingFor(subtotalCents int64) int64 {
	if subtotalCents > p.FreeShippingThresholdCents {
		return 0
	}
	return p.FlatShippingCents
}

func (p PricingPolicy) TaxFor(subtotalCents int64) int64 {
	if p.TaxRate <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotalCents) * p.TaxRate))
}

// SnapshotItems freezes cart lines into order lines at their current prices.
func SnapshotItems(items []CartItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItem{
			ProductID:      item.Product.ID,
			Name:           item.Product.Name,
			Brand:          item.Product.Brand,
			Size:           item.Product.Size,
			UnitPriceCents: item.Product.PriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.Product.PriceCents * int64(item.Quantity),
		})
	}
	return out
}

func SumLineTotals(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents
	}
	return total
}
