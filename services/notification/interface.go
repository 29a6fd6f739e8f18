package notification

import (
	"context"
	"fmt"

	deviceRepo "masterbook/database/repository/device"
	"masterbook/models"

	"firebase.google.com/go/v4/messaging"
)

// PushSender delivers one push notification.
type PushSender interface {
	Send(ctx context.Context, p models.PushPayload) error
}

// messageSender is the part of the FCM client we use.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender looks up the recipient's token and pushes through FCM.
type FCMSender struct {
	Devices deviceRepo.DeviceRepository
	Client  messageSender
}

func NewFCMSender(devices deviceRepo.DeviceRepository, client *messaging.Client) (*FCMSender, error) {
	if devices == nil || client == nil {
		return nil, fmt.Errorf("notification service initialization error: device repo or FCM client is nil")
	}
	return &FCMSender{Devices: devices, Client: client}, nil
}

// ErrNoDevice is returned when the recipient never registered a token.
var ErrNoDevice = fmt.Errorf("recipient has no registered device")

func (s *FCMSender) Send(ctx context.Context, p models.PushPayload) error {
	token, err := s.Devices.GetToken(ctx, p.RecipientID, p.Role)
	if err != nil {
		return fmt.Errorf("Send: could not find device of %s %s: %w", p.Role, p.RecipientID, err)
	}
	if token == "" {
		return fmt.Errorf("Send: %s %s: %w", p.Role, p.RecipientID, ErrNoDevice)
	}

	if _, err := s.Client.Send(ctx, buildMessage(token, p)); err != nil {
		return fmt.Errorf("Send: failed to send FCM message: %w", err)
	}
	return nil
}

func buildMessage(token string, p models.PushPayload) *messaging.Message {
	data := make(map[string]string, len(p.Data)+1)
	for k, v := range p.Data {
		data[k] = v
	}
	if _, ok := data["role"]; !ok {
		data["role"] = p.Role
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
