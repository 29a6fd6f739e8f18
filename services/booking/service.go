package booking

import (
	"context"
	"errors"
	"fmt"

	"masterbook/database"
	calendarRepo "masterbook/database/repository/calendar"
	catalogRepo "masterbook/database/repository/catalog"
	orderRepo "masterbook/database/repository/order"
	"masterbook/models"
	"masterbook/services/scheduling"

	"go.uber.org/zap"
)

// DefaultOrderService implements OrderService.
type DefaultOrderService struct {
	Orders   orderRepo.OrderRepository
	Days     calendarRepo.CalendarRepository
	Services catalogRepo.ServiceRepository
	Matching MatchingService
	Ledger   Ledger
	Notifier Notifier
	Tx       database.Transactor
	Engine   *scheduling.Engine
	Logger   *zap.Logger
}

func NewOrderService(
	orders orderRepo.OrderRepository,
	days calendarRepo.CalendarRepository,
	services catalogRepo.ServiceRepository,
	matching MatchingService,
	ledger Ledger,
	notifier Notifier,
	tx database.Transactor,
	slotMinutes int,
	logger *zap.Logger,
) *DefaultOrderService {
	return &DefaultOrderService{
		Orders:   orders,
		Days:     days,
		Services: services,
		Matching: matching,
		Ledger:   ledger,
		Notifier: notifier,
		Tx:       tx,
		Engine:   scheduling.NewEngine(slotMinutes),
		Logger:   logger,
	}
}

func (s *DefaultOrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("GetOrder: %w", err)
	}
	if order == nil {
		return nil, scheduling.NotFound("order %s", orderID)
	}
	return order, nil
}

func (s *DefaultOrderService) serviceMap(ctx context.Context, ids []string) (map[string]models.Service, error) {
	services, err := s.Services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, scheduling.NotFound("service %s", id)
		}
	}
	return byID, nil
}

// saveDay maps a lost optimistic-lock race onto a conflict.
func (s *DefaultOrderService) saveDay(ctx context.Context, day *models.CalendarDay) error {
	err := s.Days.Save(ctx, day)
	if errors.Is(err, calendarRepo.ErrVersionConflict) {
		return scheduling.Conflict("calendar of master %s on %s changed concurrently", day.MasterID, day.Date)
	}
	return err
}

// occupyLeg reserves the service run of a leg on day, which must already be
// verified to fit, and returns the time right after it.
func (s *DefaultOrderService) occupyLeg(day *models.CalendarDay, svc models.Service, leg models.OrderLeg) (models.TimeOfDay, error) {
	fits, err := s.Engine.ServiceFitsIntoSlots(svc, day.Slots, leg.StartTime, leg.StartTime.Add(svc.MaxDuration))
	if err != nil || !fits {
		return 0, scheduling.OrderCreation("service %s no longer fits at %s for master %s", svc.ID, leg.StartTime, day.MasterID)
	}
	next, err := scheduling.OccupySlotRange(day, leg.StartTime, scheduling.ServiceSlots(svc, s.Engine.SlotMinutes), leg.ID)
	if err != nil {
		return 0, scheduling.OrderCreation("cannot occupy %s for master %s: %v", leg.StartTime, day.MasterID, err)
	}
	return next, nil
}

// reserveBuffer marks the slot at t for legID when it exists and is free.
func reserveBuffer(day *models.CalendarDay, t models.TimeOfDay, legID string) bool {
	if t == models.EndOfDay {
		return false
	}
	slot, ok := scheduling.FindSlot(day, t)
	if !ok || slot.Occupied {
		return false
	}
	slot.Occupied = true
	slot.LegID = legID
	return true
}
