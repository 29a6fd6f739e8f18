package booking

import (
	"context"
	"fmt"

	"masterbook/models"
	"masterbook/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// masterPlan is the tentative state of one master's day inside an order.
type masterPlan struct {
	masterID string
	items    []models.OrderItem
	day      *models.CalendarDay
}

// CreateOrder books every requested service. Services of the same master
// are chained back to back from the order time and followed by one buffer
// slot. Either the whole order is stored or nothing changes.
func (s *DefaultOrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ServiceID
	}
	services, err := s.serviceMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	items, err := s.assignMasters(ctx, req)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:       uuid.New().String(),
		ClientID: req.ClientID,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Status:   models.OrderStatusActive,
	}

	plans := groupByMaster(items)
	for _, plan := range plans {
		day, err := s.Days.GetDay(ctx, plan.masterID, req.Date)
		if err != nil {
			return nil, fmt.Errorf("CreateOrder: %w", err)
		}
		if day == nil {
			return nil, scheduling.NotFound("master %s has no calendar on %s", plan.masterID, req.Date)
		}
		plan.day = day.Clone()

		cur := req.Time
		var last models.OrderLeg
		for _, item := range plan.items {
			svc := services[item.ServiceID]
			leg := models.OrderLeg{
				ID:        uuid.New().String(),
				ServiceID: svc.ID,
				MasterID:  plan.masterID,
				StartTime: cur,
				Price:     svc.Price,
			}
			if cur, err = s.occupyLeg(plan.day, svc, leg); err != nil {
				return nil, err
			}
			order.Legs = append(order.Legs, leg)
			last = leg
		}
		reserveBuffer(plan.day, cur, last.ID)
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, plan := range plans {
			if err := s.saveDay(ctx, plan.day); err != nil {
				return err
			}
		}
		if err := s.Orders.Insert(ctx, order); err != nil {
			return err
		}
		for _, leg := range order.Legs {
			if err := s.Ledger.CreatePendingShare(ctx, leg.MasterID, order, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("CreateOrder: %w", err)
	}

	s.Logger.Info("Order created",
		zap.String("orderId", order.ID),
		zap.String("clientId", order.ClientID),
		zap.Int("legs", len(order.Legs)))

	for _, plan := range plans {
		s.Notifier.NotifyMaster(ctx, plan.masterID, "New order",
			fmt.Sprintf("You have a new order on %s at %s", order.Date, order.Time),
			map[string]string{"type": "new_order", "orderId": order.ID})
	}
	return order, nil
}

// assignMasters fills in a master for every item that came without one,
// taking the best ranked master free at the order time. A master named by
// the client must show up in the same pinpoint search for their first
// service and must offer every later one.
func (s *DefaultOrderService) assignMasters(ctx context.Context, req models.CreateOrderRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, len(req.Items))
	copy(items, req.Items)
	confirmed := map[string]models.Master{}
	for i, item := range items {
		if m, ok := confirmed[item.MasterID]; ok {
			if !m.Offers(item.ServiceID) {
				return nil, scheduling.OrderCreation("master %s does not offer service %s", m.ID, item.ServiceID)
			}
			continue
		}
		candidates, err := s.Matching.SearchPinpoint(ctx, models.PinpointCriteria{
			ServiceID: item.ServiceID,
			Date:      req.Date,
			Time:      req.Time,
			Location:  req.Location,
		})
		if err != nil {
			return nil, err
		}
		if item.MasterID == "" {
			if len(candidates) == 0 {
				return nil, scheduling.OrderCreation("no master available for service %s at %s %s", item.ServiceID, req.Date, req.Time)
			}
			items[i].MasterID = candidates[0].Master.ID
			confirmed[items[i].MasterID] = candidates[0].Master
			continue
		}
		found := false
		for _, c := range candidates {
			if c.Master.ID == item.MasterID {
				confirmed[item.MasterID] = c.Master
				found = true
				break
			}
		}
		if !found {
			return nil, scheduling.OrderCreation("master %s cannot take service %s at %s %s", item.MasterID, item.ServiceID, req.Date, req.Time)
		}
	}
	return items, nil
}

// groupByMaster keeps the first-appearance order of masters and items.
func groupByMaster(items []models.OrderItem) []*masterPlan {
	var plans []*masterPlan
	byMaster := map[string]*masterPlan{}
	for _, item := range items {
		plan, ok := byMaster[item.MasterID]
		if !ok {
			plan = &masterPlan{masterID: item.MasterID}
			byMaster[item.MasterID] = plan
			plans = append(plans, plan)
		}
		plan.items = append(plan.items, item)
	}
	return plans
}

func validateOrderRequest(req models.CreateOrderRequest) error {
	if req.ClientID == "" {
		return scheduling.InvalidArgument("client is required")
	}
	if !models.ValidDate(req.Date) {
		return scheduling.InvalidArgument("invalid date %q", req.Date)
	}
	if req.Time < 0 || req.Time >= models.EndOfDay {
		return scheduling.InvalidArgument("invalid time %d", int(req.Time))
	}
	if !req.Location.Valid() {
		return scheduling.InvalidArgument("invalid location")
	}
	if len(req.Items) == 0 {
		return scheduling.InvalidArgument("order has no services")
	}
	for i, item := range req.Items {
		if item.ServiceID == "" {
			return scheduling.InvalidArgument("item %d has no service", i+1)
		}
	}
	return nil
}
