package booking

import (
	"context"
	"fmt"

	"masterbook/models"
	"masterbook/services/scheduling"

	"go.uber.org/zap"
)

// CancelByMaster withdraws a master from an order. Every leg of that master
// gets a replacement or, when any leg cannot be covered, the whole order is
// voided. Replacements are computed on copies of the candidates' days and
// written in one transaction only once all legs are covered.
func (s *DefaultOrderService) CancelByMaster(ctx context.Context, orderID, masterID string) (*models.CancellationResult, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	legIdx := order.LegsOf(masterID)
	if len(legIdx) == 0 {
		return nil, scheduling.PermissionDenied("master %s is not part of order %s", masterID, orderID)
	}
	for _, i := range legIdx {
		if order.Legs[i].Locked {
			return nil, scheduling.PermissionDenied("leg %s of order %s is locked", order.Legs[i].ID, orderID)
		}
	}

	serviceIDs := make([]string, 0, len(legIdx))
	for _, i := range legIdx {
		serviceIDs = append(serviceIDs, order.Legs[i].ServiceID)
	}
	services, err := s.serviceMap(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	// Candidate pass: nothing is written here.
	type buffer struct {
		masterID string
		at       models.TimeOfDay
		legID    string
	}
	working := map[string]*models.CalendarDay{}
	replacements := map[string]string{}
	var buffers []buffer
	for _, i := range legIdx {
		leg := order.Legs[i]
		candidate, next, err := s.findReplacement(ctx, order, leg, services[leg.ServiceID], masterID, working)
		if err != nil {
			return nil, err
		}
		if candidate == "" {
			s.Logger.Info("No replacement found, voiding order",
				zap.String("orderId", order.ID),
				zap.String("legId", leg.ID),
				zap.String("masterId", masterID))
			if err := s.voidOrder(ctx, order); err != nil {
				return nil, err
			}
			s.Notifier.NotifyClient(ctx, order.ClientID, "Order cancelled",
				fmt.Sprintf("Your order on %s at %s was cancelled: no master is available", order.Date, order.Time),
				map[string]string{"type": "order_cancelled", "orderId": order.ID})
			return &models.CancellationResult{Voided: true}, nil
		}
		replacements[leg.ID] = candidate
		buffers = append(buffers, buffer{masterID: candidate, at: next, legID: leg.ID})
	}
	// Buffers go last so a chained leg is never blocked by its predecessor's.
	for _, b := range buffers {
		reserveBuffer(working[b.masterID], b.at, b.legID)
	}

	// Commit pass.
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		day, err := s.Days.GetDay(ctx, masterID, order.Date)
		if err != nil {
			return err
		}
		if day != nil {
			for _, i := range legIdx {
				scheduling.ReleaseLeg(day, order.Legs[i].ID)
			}
			if err := s.saveDay(ctx, day); err != nil {
				return err
			}
		}
		for _, d := range working {
			if err := s.saveDay(ctx, d); err != nil {
				return err
			}
		}
		for _, i := range legIdx {
			leg := order.Legs[i]
			if err := s.Ledger.CancelPendingShare(ctx, masterID, order, leg); err != nil {
				return err
			}
			leg.MasterID = replacements[leg.ID]
			if err := s.Ledger.CreatePendingShare(ctx, leg.MasterID, order, leg); err != nil {
				return err
			}
			order.Legs[i] = leg
		}
		return s.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("CancelByMaster: %w", err)
	}

	s.Logger.Info("Order legs reassigned",
		zap.String("orderId", order.ID),
		zap.String("cancelledBy", masterID),
		zap.Int("legs", len(replacements)))

	notified := map[string]bool{}
	for _, newMaster := range replacements {
		if notified[newMaster] {
			continue
		}
		notified[newMaster] = true
		s.Notifier.NotifyMaster(ctx, newMaster, "New order",
			fmt.Sprintf("You have a new order on %s", order.Date),
			map[string]string{"type": "new_order", "orderId": order.ID})
	}
	s.Notifier.NotifyClient(ctx, order.ClientID, "Master changed",
		fmt.Sprintf("A new master will serve your order on %s", order.Date),
		map[string]string{"type": "order_changed", "orderId": order.ID})

	return &models.CancellationResult{Order: order, Replacements: replacements}, nil
}

// findReplacement walks the ranked candidates for one leg and returns the
// first one whose tentative day still takes the leg, occupying it in
// working, along with the time right after the leg. It returns "" when
// nobody can.
func (s *DefaultOrderService) findReplacement(
	ctx context.Context,
	order *models.Order,
	leg models.OrderLeg,
	svc models.Service,
	cancelling string,
	working map[string]*models.CalendarDay,
) (string, models.TimeOfDay, error) {
	candidates, err := s.Matching.SearchPinpoint(ctx, models.PinpointCriteria{
		ServiceID:        leg.ServiceID,
		Date:             order.Date,
		Time:             leg.StartTime,
		Location:         order.Location,
		ExcludeMasterIDs: []string{cancelling},
	})
	if err != nil {
		return "", 0, err
	}

	for _, c := range candidates {
		day, ok := working[c.Master.ID]
		if !ok {
			stored, err := s.Days.GetDay(ctx, c.Master.ID, order.Date)
			if err != nil {
				return "", 0, fmt.Errorf("findReplacement: %w", err)
			}
			if stored == nil {
				continue
			}
			day = stored.Clone()
		}

		tentative := day.Clone()
		next, err := s.occupyLeg(tentative, svc, leg)
		if err != nil {
			continue
		}
		working[c.Master.ID] = tentative
		return c.Master.ID, next, nil
	}
	return "", 0, nil
}

// CancelByClient deletes the order and frees everything it held.
func (s *DefaultOrderService) CancelByClient(ctx context.Context, orderID, clientID string) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ClientID != clientID {
		return scheduling.PermissionDenied("order %s does not belong to client %s", orderID, clientID)
	}
	if err := s.voidOrder(ctx, order); err != nil {
		return err
	}

	for _, m := range order.MasterIDs() {
		s.Notifier.NotifyMaster(ctx, m, "Order cancelled",
			fmt.Sprintf("The order on %s at %s was cancelled by the client", order.Date, order.Time),
			map[string]string{"type": "order_cancelled", "orderId": order.ID})
	}
	return nil
}

// voidOrder frees the slots of every leg, cancels their shares and deletes
// the order, all in one transaction. Leg assignments are left as they were.
func (s *DefaultOrderService) voidOrder(ctx context.Context, order *models.Order) error {
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, masterID := range order.MasterIDs() {
			day, err := s.Days.GetDay(ctx, masterID, order.Date)
			if err != nil {
				return err
			}
			if day == nil {
				continue
			}
			for _, i := range order.LegsOf(masterID) {
				scheduling.ReleaseLeg(day, order.Legs[i].ID)
			}
			if err := s.saveDay(ctx, day); err != nil {
				return err
			}
		}
		for _, leg := range order.Legs {
			if err := s.Ledger.CancelPendingShare(ctx, leg.MasterID, order, leg); err != nil {
				return err
			}
		}
		return s.Orders.Delete(ctx, order.ID)
	})
	if err != nil {
		return fmt.Errorf("voidOrder %s: %w", order.ID, err)
	}
	s.Logger.Info("Order voided", zap.String("orderId", order.ID))
	return nil
}
