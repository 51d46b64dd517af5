// Package catalog holds the fixed product list used to pre-fill line items.
package catalog

import (
	"strings"

	"orderledger/internal/app/ds"
)

var products = []ds.Product{
	{Code: "JE-WHT-XL", Description: "JEANS WHITE XL SIZE", Price: 1000},
	{Code: "JE-WHT-M", Description: "JEANS WHITE MEDIUM SIZE", Price: 700},
	{Code: "JO-WHT-XL", Description: "JOGGER WHITE XL SIZE", Price: 1500},
	{Code: "JO-WHT-S", Description: "JOGGER WHITE SMALL SIZE", Price: 600},
	{Code: "SH-WHT-XL", Description: "SHIRT WHITE XL SIZE", Price: 850},
	{Code: "SH-WHT-M", Description: "SHIRT WHITE MEDIUM SIZE", Price: 390},
	{Code: "T-BLK-XL", Description: "TSHIRT BLACK XL SIZE", Price: 950},
}

func All() []ds.Product {
	out := make([]ds.Product, len(products))
	copy(out, products)
	return out
}

// Lookup finds a product by code. Codes are matched case-insensitively.
func Lookup(code string) (ds.Product, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range products {
		if p.Code == code {
			return p, true
		}
	}
	return ds.Product{}, false
}
