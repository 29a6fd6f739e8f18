package models

import "time"

const (
	RoleMaster = "master"
	RoleClient = "client"
)

// Device maps an order participant to an FCM registration token.
type Device struct {
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Role      string    `bson:"role" json:"role"` // "master" or "client"
	FCMToken  string    `bson:"fcmToken" json:"fcmToken"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RegisterDeviceRequest struct {
	OwnerID  string `json:"ownerId" binding:"required"`
	Role     string `json:"role" binding:"required"`
	FCMToken string `json:"fcmToken" binding:"required"`
}

// PushPayload is the queued body of a push notification task.
type PushPayload struct {
	RecipientID string            `json:"recipientId"`
	Role        string            `json:"role"` // "master" or "client"
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}
