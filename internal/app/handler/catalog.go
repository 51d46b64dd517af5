package handler

import (
	"net/http"

	"orderledger/internal/app/catalog"
	"orderledger/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// GetCatalog lists the known products
// @Summary Product catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.ProductListResponse
// @Router /api/catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	products := catalog.All()

	resp := dto.ProductListResponse{
		Products: make([]dto.ProductResponse, len(products)),
		Total:    len(products),
	}
	for i, p := range products {
		resp.Products[i] = dto.FromProduct(p)
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct looks a product up by code, used to pre-fill the item form
// @Summary Product by code
// @Tags Catalog
// @Produce json
// @Param code path string true "Product code"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/catalog/{code} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, ok := catalog.Lookup(c.Param("code"))
	if !ok {
		h.errorResponse(c, http.StatusNotFound, "product not found")
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}
