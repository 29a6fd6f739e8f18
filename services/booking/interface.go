package booking

import (
	"context"

	"masterbook/models"
)

// MatchingService finds and ranks masters able to serve a request.
type MatchingService interface {
	Search(ctx context.Context, criteria models.SearchCriteria) (*models.SearchResult, error)
	SearchPinpoint(ctx context.Context, criteria models.PinpointCriteria) ([]models.RankedMaster, error)
}

// OrderService creates orders and resolves their cancellation.
type OrderService interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	CancelByMaster(ctx context.Context, orderID, masterID string) (*models.CancellationResult, error)
	CancelByClient(ctx context.Context, orderID, clientID string) error
}

// Ledger records expected master payouts. Both calls must be safe to repeat.
type Ledger interface {
	CreatePendingShare(ctx context.Context, masterID string, order *models.Order, leg models.OrderLeg) error
	CancelPendingShare(ctx context.Context, masterID string, order *models.Order, leg models.OrderLeg) error
}

// Notifier delivers best-effort pushes. It never blocks or fails the caller.
type Notifier interface {
	NotifyMaster(ctx context.Context, masterID, title, body string, data map[string]string)
	NotifyClient(ctx context.Context, clientID, title, body string, data map[string]string)
}
