package handlers

import (
	"net/http"

	"masterbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
