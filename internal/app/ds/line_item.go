package ds

import (
	"fmt"
	"strings"
)

// PricingMode selects whether a percentage discount applies to a line item.
type PricingMode string

const (
	PricingPercentage PricingMode = "percentage"
	PricingNone       PricingMode = "none"
)

// legacy values written by the mobile client ("PP" / "NP")
const (
	legacyPercentage = "PP"
	legacyNone       = "NP"
)

// ParsePricingMode accepts both the current and the legacy spelling.
func ParsePricingMode(s string) (PricingMode, error) {
	switch strings.TrimSpace(s) {
	case string(PricingPercentage), legacyPercentage:
		return PricingPercentage, nil
	case string(PricingNone), legacyNone:
		return PricingNone, nil
	}
	return "", fmt.Errorf("unknown pricing mode %q", s)
}

func (m PricingMode) MarshalText() ([]byte, error) {
	if m == "" {
		return []byte(PricingNone), nil
	}
	return []byte(m), nil
}

func (m *PricingMode) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = PricingNone
		return nil
	}
	parsed, err := ParsePricingMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// LineItem is one product entry of an order. FinalPrice is computed once
// when the item enters the ledger and is never recomputed.
type LineItem struct {
	ID              string      `json:"id"`
	Code            string      `json:"code"`
	Description     string      `json:"description"`
	UnitPrice       float64     `json:"unitPrice"`
	Quantity        int         `json:"quantity"`
	PricingMode     PricingMode `json:"pricingMode"`
	DiscountPercent float64     `json:"discountPercent"`
	FinalPrice      float64     `json:"finalPrice"`
}

// LineItemInput is a line item before the ledger assigns ID and FinalPrice.
type LineItemInput struct {
	Code            string
	Description     string
	UnitPrice       float64
	Quantity        int
	PricingMode     PricingMode
	DiscountPercent float64
}
