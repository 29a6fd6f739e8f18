package handlers

import (
	"net/http"

	"masterbook/models"
	"masterbook/services/booking"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Orders booking.OrderService
	Logger *zap.Logger
}

func NewOrderHandler(orders booking.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{Orders: orders, Logger: logger}
}

func (h *OrderHandler) CreateOrderHandler(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	order, err := h.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelByMasterHandler withdraws the master named in the body from the order.
func (h *OrderHandler) CancelByMasterHandler(c *gin.Context) {
	var input struct {
		MasterID string `json:"masterId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	res, err := h.Orders.CancelByMaster(c.Request.Context(), c.Param("orderID"), input.MasterID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) CancelByClientHandler(c *gin.Context) {
	var input struct {
		ClientID string `json:"clientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Orders.CancelByClient(c.Request.Context(), c.Param("orderID"), input.ClientID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}
