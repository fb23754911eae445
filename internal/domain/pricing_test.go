package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cartOf(priceCents int64, qty int) []CartItem {
	return []CartItem{{ID: "line-1", Product: Product{ID: "p1", PriceCents: priceCents}, Quantity: qty}}
}

func TestSummarizeCartAppliesShippingAndTax(t *testing.T) {
	summary := SummarizeCart(cartOf(5000, 1), DefaultPricingPolicy())

	assert.Equal(t, int64(5000), summary.SubtotalCents)
	assert.Equal(t, int64(1000), summary.ShippingCents)
	assert.Equal(t, int64(400), summary.TaxCents)
	assert.Equal(t, int64(6400), summary.TotalCents)
	assert.Equal(t, 1, summary.ItemCount)
}

func TestSummarizeCartThresholdIsStrict(t *testing.T) {
	atThreshold := SummarizeCart(cartOf(5000, 2), DefaultPricingPolicy())
	assert.Equal(t, int64(10000), atThreshold.SubtotalCents)
	assert.Equal(t, int64(1000), atThreshold.ShippingCents, "exactly the threshold still pays shipping")
	assert.Equal(t, int64(800), atThreshold.TaxCents)
	assert.Equal(t, int64(11800), atThreshold.TotalCents)

	above := SummarizeCart(cartOf(10001, 1), DefaultPricingPolicy())
	assert.Equal(t, int64(0), above.ShippingCents)
}

func TestSummarizeCartRoundsTaxToCents(t *testing.T) {
	summary := SummarizeCart(cartOf(8999, 1), DefaultPricingPolicy())
	// 8999 * 0.08 = 719.92
	assert.Equal(t, int64(720), summary.TaxCents)
}

func TestSummarizeEmptyCart(t *testing.T) {
	summary := SummarizeCart(nil, DefaultPricingPolicy())
	assert.Equal(t, CartSummary{ShippingCents: 1000, TotalCents: 1000}, summary)
}

func TestSnapshotItemsComputesLineTotals(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "a", Name: "Oud", PriceCents: 12000}, Quantity: 2},
		{Product: Product{ID: "b", Name: "Citrus", PriceCents: 4500}, Quantity: 1},
	}

	lines := SnapshotItems(items)

	assert.Len(t, lines, 2)
	assert.Equal(t, int64(24000), lines[0].LineTotalCents)
	assert.Equal(t, int64(28500), SumLineTotals(lines))
}
