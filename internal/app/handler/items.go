package handler

import (
	"errors"
	"net/http"

	"orderledger/internal/app/ds"
	"orderledger/internal/app/dto"
	"orderledger/internal/app/export"
	"orderledger/internal/app/ledger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errDiscountRequired = errors.New("discount_percent is required for percentage pricing")

func (h *Handler) toItemResponse(it ds.LineItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:              it.ID,
		Code:            it.Code,
		Description:     it.Description,
		UnitPrice:       it.UnitPrice,
		Quantity:        it.Quantity,
		PricingMode:     string(pricingModeOrNone(it.PricingMode)),
		DiscountPercent: it.DiscountPercent,
		FinalPrice:      it.FinalPrice,
		FinalPriceText:  export.FormatMoney(h.Export.CurrencyLabel, it.FinalPrice),
	}
}

func pricingModeOrNone(m ds.PricingMode) ds.PricingMode {
	if m == "" {
		return ds.PricingNone
	}
	return m
}

// pricing resolves mode and discount of a request. Mode defaults to percentage.
func pricing(mode string, discount *float64) (ds.PricingMode, float64, error) {
	m := ds.PricingPercentage
	if mode != "" {
		parsed, err := ds.ParsePricingMode(mode)
		if err != nil {
			return "", 0, err
		}
		m = parsed
	}
	if discount == nil {
		if m == ds.PricingPercentage {
			return "", 0, errDiscountRequired
		}
		return m, 0, nil
	}
	return m, *discount, nil
}

// GetItems lists the line items in order with the total
// @Summary List line items
// @Tags Items
// @Produce json
// @Success 200 {object} dto.ItemListResponse
// @Router /api/items [get]
func (h *Handler) GetItems(c *gin.Context) {
	items, total := h.Ledger.Snapshot()

	resp := dto.ItemListResponse{
		Items:     make([]dto.ItemResponse, len(items)),
		Count:     len(items),
		Total:     total,
		TotalText: export.FormatMoney(h.Export.CurrencyLabel, total),
	}
	for i, it := range items {
		resp.Items[i] = h.toItemResponse(it)
	}

	c.JSON(http.StatusOK, resp)
}

// AddItem validates the form and appends a line item
// @Summary Add line item
// @Description Final price is computed once here and never recomputed
// @Tags Items
// @Accept json
// @Produce json
// @Param request body dto.AddItemRequest true "Line item"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/items [post]
func (h *Handler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid item: "+err.Error())
		return
	}

	mode, discount, err := pricing(req.PricingMode, req.DiscountPercent)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	item := h.Ledger.Add(ds.LineItemInput{
		Code:            req.Code,
		Description:     req.Description,
		UnitPrice:       *req.UnitPrice,
		Quantity:        *req.Quantity,
		PricingMode:     mode,
		DiscountPercent: discount,
	})

	logrus.WithFields(logrus.Fields{
		"id":          item.ID,
		"code":        item.Code,
		"final_price": item.FinalPrice,
	}).Info("item added")

	c.JSON(http.StatusCreated, h.toItemResponse(item))
}

// QuoteItem previews the final price of a line item without adding it
// @Summary Price preview
// @Tags Items
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Pricing input"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/items/quote [post]
func (h *Handler) QuoteItem(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid quote: "+err.Error())
		return
	}

	mode, discount, err := pricing(req.PricingMode, req.DiscountPercent)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	price := ledger.Quote(ds.LineItemInput{
		UnitPrice:       *req.UnitPrice,
		Quantity:        *req.Quantity,
		PricingMode:     mode,
		DiscountPercent: discount,
	})

	c.JSON(http.StatusOK, dto.QuoteResponse{
		FinalPrice:     price,
		FinalPriceText: export.FormatMoney(h.Export.CurrencyLabel, price),
	})
}

// RemoveItem deletes a line item; unknown ids are not an error
// @Summary Remove line item
// @Tags Items
// @Produce json
// @Param id path string true "Line item ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /api/items/{id} [delete]
func (h *Handler) RemoveItem(c *gin.Context) {
	id := c.Param("id")
	removed := h.Ledger.Remove(id)

	message := "item removed"
	if !removed {
		message = "item not found, nothing removed"
	}
	h.successResponse(c, http.StatusOK, message, dto.RemoveItemResponse{ID: id, Removed: removed})
}

// ClearItems empties the ledger
// @Summary Clear all line items
// @Tags Items
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /api/items [delete]
func (h *Handler) ClearItems(c *gin.Context) {
	h.Ledger.Clear()
	logrus.Info("ledger cleared")
	h.successResponse(c, http.StatusOK, "all items removed", nil)
}

// GetTotal returns the sum of final prices
// @Summary Order total
// @Tags Items
// @Produce json
// @Success 200 {object} dto.TotalResponse
// @Router /api/total [get]
func (h *Handler) GetTotal(c *gin.Context) {
	items, total := h.Ledger.Snapshot()
	c.JSON(http.StatusOK, dto.TotalResponse{
		Count:     len(items),
		Total:     total,
		TotalText: export.FormatMoney(h.Export.CurrencyLabel, total),
	})
}
