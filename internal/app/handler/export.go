package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"orderledger/internal/app/dto"
	"orderledger/internal/app/export"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *Handler) renderSummary() ([]byte, string, error) {
	now := h.now()
	items, total := h.Ledger.Snapshot()
	summary := export.Summary{
		Items:       items,
		Total:       total,
		GeneratedAt: now,
	}

	var buf bytes.Buffer
	err := export.RenderPDF(&buf, summary, export.Options{
		Title:         h.Export.Title,
		CurrencyLabel: h.Export.CurrencyLabel,
		Footer:        h.Export.Footer,
	})
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), export.Filename(now), nil
}

func (h *Handler) exportFailed(c *gin.Context, err error) {
	if errors.Is(err, export.ErrNothingToExport) {
		h.errorResponse(c, http.StatusConflict, err.Error())
		return
	}
	h.errorHandler(c, http.StatusInternalServerError, fmt.Errorf("failed to generate PDF: %w", err))
}

// DownloadPDF renders the order summary
// @Summary Order summary PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/export/pdf [get]
func (h *Handler) DownloadPDF(c *gin.Context) {
	data, filename, err := h.renderSummary()
	if err != nil {
		h.exportFailed(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// UploadPDF renders the order summary, stores it and returns a download link
// @Summary Share order summary
// @Tags Export
// @Produce json
// @Success 201 {object} dto.ExportResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/export [post]
func (h *Handler) UploadPDF(c *gin.Context) {
	if h.Uploader == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "export upload is not configured")
		return
	}

	data, filename, err := h.renderSummary()
	if err != nil {
		h.exportFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	stored, err := h.Uploader.UploadFile(ctx, data, filename)
	if err != nil {
		h.errorHandler(c, http.StatusBadGateway, err)
		return
	}

	url, err := h.Uploader.GetFileURL(ctx, stored, h.Export.URLExpiry)
	if err != nil {
		h.errorHandler(c, http.StatusBadGateway, err)
		return
	}

	logrus.WithField("file", stored).Info("order summary uploaded")
	c.JSON(http.StatusCreated, dto.ExportResponse{
		File:      stored,
		URL:       url,
		ExpiresAt: h.now().Add(h.Export.URLExpiry),
	})
}
