package handler

import (
	"context"
	"net/http"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/dto"
	"orderledger/internal/app/ledger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Uploader stores rendered exports and hands out download links.
type Uploader interface {
	UploadFile(ctx context.Context, fileData []byte, originalFilename string) (string, error)
	GetFileURL(ctx context.Context, filename string, expiry time.Duration) (string, error)
}

type Handler struct {
	Ledger   *ledger.Ledger
	Export   config.ExportConfig
	Uploader Uploader // nil when export uploads are disabled

	now func() time.Time
}

func NewHandler(l *ledger.Ledger, exportCfg config.ExportConfig, uploader Uploader) *Handler {
	registerValidators()
	return &Handler{
		Ledger:   l,
		Export:   exportCfg,
		Uploader: uploader,
		now:      time.Now,
	}
}

// ============ Helpers ============

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

// errorHandler logs err and answers with its text.
func (h *Handler) errorHandler(c *gin.Context, statusCode int, err error) {
	logrus.WithField("path", c.FullPath()).Error(err.Error())
	h.errorResponse(c, statusCode, err.Error())
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// Ping checks the API is up
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// GetStatus reports ledger size and background save state
// @Summary Ledger status
// @Tags Health
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /api/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Items:   h.Ledger.Len(),
		Storage: h.Ledger.Stats(),
	})
}
