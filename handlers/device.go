package handlers

import (
	"net/http"

	deviceRepo "masterbook/database/repository/device"
	"masterbook/models"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DeviceHandler struct {
	Devices deviceRepo.DeviceRepository
	Logger  *zap.Logger
}

func NewDeviceHandler(devices deviceRepo.DeviceRepository, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{Devices: devices, Logger: logger}
}

// RegisterDeviceHandler stores the FCM token pushes are sent to.
func (h *DeviceHandler) RegisterDeviceHandler(c *gin.Context) {
	var req models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.Role != models.RoleMaster && req.Role != models.RoleClient {
		utils.JSONError(c, http.StatusBadRequest, "invalid role", req.Role)
		return
	}

	device := &models.Device{OwnerID: req.OwnerID, Role: req.Role, FCMToken: req.FCMToken}
	if err := h.Devices.Upsert(c.Request.Context(), device); err != nil {
		h.Logger.Error("Failed to register device", zap.String("ownerId", req.OwnerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to register device", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}
