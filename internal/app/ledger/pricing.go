package ledger

import (
	"orderledger/internal/app/ds"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FinalPrice returns unitPrice * quantity, reduced by discountPercent of that
// amount when the mode is percentage. Under any other mode the discount is ignored.
func FinalPrice(unitPrice float64, quantity int, mode ds.PricingMode, discountPercent float64) decimal.Decimal {
	gross := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	if mode != ds.PricingPercentage {
		return gross
	}
	discount := gross.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
	return gross.Sub(discount)
}

// Quote prices an input the same way Add does, without touching the ledger.
func Quote(in ds.LineItemInput) float64 {
	return FinalPrice(in.UnitPrice, in.Quantity, in.PricingMode, in.DiscountPercent).InexactFloat64()
}

func sum(items []ds.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.FinalPrice))
	}
	return total
}
