package routes

import (
	"time"

	"masterbook/config"
	"masterbook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCalendarRoutes registers the master calendar endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/masters/:masterID/days", hb.ListDays)
	api := r.Group("/api/masters/:masterID/days/:date")
	{
		api.GET("", hb.GetDay)
		api.PUT("/slots", hb.PublishSlots)
		api.DELETE("/slots/:time", hb.RemoveSlot)
	}
}

func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/search")
	{
		api.POST("", hb.Search)
		api.POST("/pinpoint", hb.SearchPinpoint)
	}
}

func RegisterOrderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/orders")
	{
		api.POST("", hb.CreateOrder)
		api.GET("/:orderID", hb.GetOrder)
		api.POST("/:orderID/cancel/master", hb.CancelByMaster)
		api.POST("/:orderID/cancel/client", hb.CancelByClient)
		api.GET("/:orderID/shares", hb.GetShares)
	}
}

func RegisterDeviceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/devices", hb.RegisterDevice)
}

func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes wires global middleware and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCalendarRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterOrderRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
