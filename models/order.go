package models

import "time"

const (
	OrderStatusActive    = "active"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderLeg is one service performed by one master within an order.
type OrderLeg struct {
	ID        string    `bson:"id" json:"id"`
	ServiceID string    `bson:"serviceId" json:"serviceId"`
	MasterID  string    `bson:"masterId" json:"masterId"`
	StartTime TimeOfDay `bson:"startTime" json:"startTime"`
	Price     float64   `bson:"price" json:"price"`
	Locked    bool      `bson:"locked" json:"locked"` // locked legs cannot be cancelled by the master
}

type Order struct {
	ID        string     `bson:"id" json:"id"`
	ClientID  string     `bson:"clientId" json:"clientId"`
	Date      string     `bson:"date" json:"date"`
	Time      TimeOfDay  `bson:"time" json:"time"`
	Location  GeoPoint   `bson:"location" json:"location"`
	Status    string     `bson:"status" json:"status"`
	Legs      []OrderLeg `bson:"legs" json:"legs"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// LegsOf returns the indexes of the legs assigned to masterID.
func (o *Order) LegsOf(masterID string) []int {
	var idx []int
	for i, leg := range o.Legs {
		if leg.MasterID == masterID {
			idx = append(idx, i)
		}
	}
	return idx
}

// MasterIDs returns the distinct masters of the order in leg order.
func (o *Order) MasterIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, leg := range o.Legs {
		if !seen[leg.MasterID] {
			seen[leg.MasterID] = true
			ids = append(ids, leg.MasterID)
		}
	}
	return ids
}

// OrderItem requests one service; MasterID is optional and is picked
// automatically when empty.
type OrderItem struct {
	ServiceID string `json:"serviceId" binding:"required"`
	MasterID  string `json:"masterId,omitempty"`
}

type CreateOrderRequest struct {
	ClientID string      `json:"clientId" binding:"required"`
	Date     string      `json:"date" binding:"required"`
	Time     TimeOfDay   `json:"time"`
	Location GeoPoint    `json:"location" binding:"required"`
	Items    []OrderItem `json:"items" binding:"required"`
}

// CancellationResult reports the outcome of a master cancellation.
type CancellationResult struct {
	Order        *Order            `json:"order,omitempty"`
	Voided       bool              `json:"voided"`
	Replacements map[string]string `json:"replacements,omitempty"` // legID -> new masterID
}
