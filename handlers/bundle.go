package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Calendar endpoints
	PublishSlots gin.HandlerFunc
	RemoveSlot   gin.HandlerFunc
	GetDay       gin.HandlerFunc
	ListDays     gin.HandlerFunc

	// Search endpoints
	Search         gin.HandlerFunc
	SearchPinpoint gin.HandlerFunc

	// Order endpoints
	CreateOrder    gin.HandlerFunc
	GetOrder       gin.HandlerFunc
	CancelByMaster gin.HandlerFunc
	CancelByClient gin.HandlerFunc
	GetShares      gin.HandlerFunc

	// Device endpoints
	RegisterDevice gin.HandlerFunc

	Health gin.HandlerFunc
}
