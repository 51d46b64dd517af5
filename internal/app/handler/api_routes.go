package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the REST API
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// ============ Line items ============
	items := api.Group("/items")
	{
		items.GET("", h.GetItems)
		items.POST("", h.AddItem)
		items.POST("/quote", h.QuoteItem)
		items.DELETE("", h.ClearItems)
		items.DELETE("/:id", h.RemoveItem)
	}
	api.GET("/total", h.GetTotal)

	// ============ Catalog ============
	catalog := api.Group("/catalog")
	{
		catalog.GET("", h.GetCatalog)
		catalog.GET("/:code", h.GetProduct)
	}

	// ============ Export ============
	export := api.Group("/export")
	{
		export.GET("/pdf", h.DownloadPDF)
		export.POST("", h.UploadPDF)
	}

	api.GET("/status", h.GetStatus)
	router.GET("/ping", h.Ping)
}
