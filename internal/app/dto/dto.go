package dto

import (
	"time"

	"orderledger/internal/app/ds"
	"orderledger/internal/app/ledger"
)

// ============ Common ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Line items ============

type AddItemRequest struct {
	Code            string   `json:"code" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	UnitPrice       *float64 `json:"unit_price" binding:"required"`
	Quantity        *int     `json:"quantity" binding:"required"`
	PricingMode     string   `json:"pricing_mode" binding:"omitempty,pricingmode"` // percentage (default) or none
	DiscountPercent *float64 `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
}

// QuoteRequest prices a line item without adding it.
type QuoteRequest struct {
	UnitPrice       *float64 `json:"unit_price" binding:"required"`
	Quantity        *int     `json:"quantity" binding:"required"`
	PricingMode     string   `json:"pricing_mode" binding:"omitempty,pricingmode"`
	DiscountPercent *float64 `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
}

type ItemResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	UnitPrice       float64 `json:"unit_price"`
	Quantity        int     `json:"quantity"`
	PricingMode     string  `json:"pricing_mode"`
	DiscountPercent float64 `json:"discount_percent"`
	FinalPrice      float64 `json:"final_price"`
	FinalPriceText  string  `json:"final_price_text"`
}

type ItemListResponse struct {
	Items     []ItemResponse `json:"items"`
	Count     int            `json:"count"`
	Total     float64        `json:"total"`
	TotalText string         `json:"total_text"`
}

type TotalResponse struct {
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	TotalText string  `json:"total_text"`
}

type QuoteResponse struct {
	FinalPrice     float64 `json:"final_price"`
	FinalPriceText string  `json:"final_price_text"`
}

type RemoveItemResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// ============ Catalog ============

type ProductResponse struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// ============ Export ============

type ExportResponse struct {
	File      string    `json:"file"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============ Status ============

type StatusResponse struct {
	Items   int          `json:"items"`
	Storage ledger.Stats `json:"storage"`
}

func FromProduct(p ds.Product) ProductResponse {
	return ProductResponse{
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price,
	}
}
