package ledger

import (
	"context"
	"fmt"

	ledgerRepo "masterbook/database/repository/ledger"
	"masterbook/models"
)

// DefaultLedger records pending master shares for order legs.
type DefaultLedger struct {
	Shares ledgerRepo.ShareRepository
}

func NewDefaultLedger(shares ledgerRepo.ShareRepository) *DefaultLedger {
	return &DefaultLedger{Shares: shares}
}

func (l *DefaultLedger) CreatePendingShare(ctx context.Context, masterID string, order *models.Order, leg models.OrderLeg) error {
	share := &models.PendingShare{
		MasterID: masterID,
		OrderID:  order.ID,
		LegID:    leg.ID,
		Amount:   leg.Price,
	}
	if err := l.Shares.UpsertPending(ctx, share); err != nil {
		return fmt.Errorf("CreatePendingShare: %w", err)
	}
	return nil
}

func (l *DefaultLedger) CancelPendingShare(ctx context.Context, masterID string, order *models.Order, leg models.OrderLeg) error {
	if err := l.Shares.MarkCancelled(ctx, masterID, leg.ID); err != nil {
		return fmt.Errorf("CancelPendingShare: %w", err)
	}
	return nil
}

// SharesOf lists the ledger entries of an order.
func (l *DefaultLedger) SharesOf(ctx context.Context, orderID string) ([]models.PendingShare, error) {
	shares, err := l.Shares.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("SharesOf: %w", err)
	}
	return shares, nil
}
