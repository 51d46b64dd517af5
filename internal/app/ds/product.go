package ds

// Product is a catalog entry used to pre-fill a line item from its code.
type Product struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}
