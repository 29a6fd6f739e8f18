package handlers

import (
	"context"
	"net/http"

	"masterbook/models"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shareLister interface {
	SharesOf(ctx context.Context, orderID string) ([]models.PendingShare, error)
}

// ShareHandler exposes the pending payouts recorded for an order.
type ShareHandler struct {
	Shares shareLister
	Logger *zap.Logger
}

func NewShareHandler(shares shareLister, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{Shares: shares, Logger: logger}
}

func (h *ShareHandler) GetSharesHandler(c *gin.Context) {
	shares, err := h.Shares.SharesOf(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if shares == nil {
		shares = []models.PendingShare{}
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}
