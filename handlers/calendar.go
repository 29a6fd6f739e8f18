package handlers

import (
	"net/http"

	"masterbook/models"
	"masterbook/services/scheduling"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	Calendar scheduling.CalendarService
	Logger   *zap.Logger
}

func NewCalendarHandler(calendar scheduling.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Calendar: calendar, Logger: logger}
}

// PublishSlotsHandler adds slot times to a master's day.
func (h *CalendarHandler) PublishSlotsHandler(c *gin.Context) {
	var req models.PublishSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	day, err := h.Calendar.PublishSlots(c.Request.Context(), c.Param("masterID"), c.Param("date"), req.Times)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

func (h *CalendarHandler) RemoveSlotHandler(c *gin.Context) {
	t, err := models.ParseTimeOfDay(c.Param("time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid time", err.Error())
		return
	}
	if err := h.Calendar.RemoveSlot(c.Request.Context(), c.Param("masterID"), c.Param("date"), t); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot removed"})
}

// ListDaysHandler returns the master's days between ?from= and ?to=, inclusive.
func (h *CalendarHandler) ListDaysHandler(c *gin.Context) {
	days, err := h.Calendar.ListDays(c.Request.Context(), c.Param("masterID"), c.Query("from"), c.Query("to"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if days == nil {
		days = []models.CalendarDay{}
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *CalendarHandler) GetDayHandler(c *gin.Context) {
	day, err := h.Calendar.GetDay(c.Request.Context(), c.Param("masterID"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}
