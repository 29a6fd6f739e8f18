package models

import "time"

const (
	ShareStatusPending   = "pending"
	ShareStatusCancelled = "cancelled"
)

// PendingShare is the ledger record of a master's expected payout for one leg.
// It is keyed by (MasterID, LegID) so repeated writes are idempotent.
type PendingShare struct {
	ID        string    `bson:"id" json:"id"`
	MasterID  string    `bson:"masterId" json:"masterId"`
	OrderID   string    `bson:"orderId" json:"orderId"`
	LegID     string    `bson:"legId" json:"legId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
