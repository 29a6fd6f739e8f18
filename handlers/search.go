package handlers

import (
	"net/http"

	"masterbook/models"
	"masterbook/services/booking"
	"masterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	Matching booking.MatchingService
	Logger   *zap.Logger
}

func NewSearchHandler(matching booking.MatchingService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{Matching: matching, Logger: logger}
}

// SearchHandler lists masters free for any of the services in a date and time range.
func (h *SearchHandler) SearchHandler(c *gin.Context) {
	var criteria models.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	res, err := h.Matching.Search(c.Request.Context(), criteria)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SearchHandler) SearchPinpointHandler(c *gin.Context) {
	var criteria models.PinpointCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	masters, err := h.Matching.SearchPinpoint(c.Request.Context(), criteria)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if masters == nil {
		masters = []models.RankedMaster{}
	}
	c.JSON(http.StatusOK, gin.H{"masters": masters})
}
