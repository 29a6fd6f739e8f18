package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderRepo "masterbook/database/repository/order"
	"masterbook/models"
	"masterbook/services/scheduling"
	"masterbook/services/travel"

	"go.uber.org/zap"
)

const oracleTimeout = 5 * time.Second

// Reachability decides whether a master can get from their previous
// commitment to a new location before a slot starts.
type Reachability struct {
	Enabled     bool
	SlotMinutes int
	Oracle      travel.Oracle
	Orders      orderRepo.OrderRepository
	Logger      *zap.Logger
}

func NewReachability(enabled bool, slotMinutes int, oracle travel.Oracle, orders orderRepo.OrderRepository, logger *zap.Logger) *Reachability {
	if slotMinutes <= 0 {
		slotMinutes = scheduling.DefaultSlotMinutes
	}
	return &Reachability{
		Enabled:     enabled,
		SlotMinutes: slotMinutes,
		Oracle:      oracle,
		Orders:      orders,
		Logger:      logger,
	}
}

// CanReach is true when the slot before t is missing or free, or when the
// trip from the order held in that slot takes less than one slot.
func (r *Reachability) CanReach(ctx context.Context, day *models.CalendarDay, location models.GeoPoint, t models.TimeOfDay) (bool, error) {
	if !r.Enabled {
		return true, nil
	}
	prev, ok := scheduling.FindSlot(day, t.Add(-r.SlotMinutes))
	if !ok || !prev.Occupied {
		return true, nil
	}

	order, err := r.Orders.GetByLegID(ctx, prev.LegID)
	if err != nil {
		return false, fmt.Errorf("CanReach: %w", err)
	}
	if order == nil {
		r.Logger.Warn("Occupied slot without an order",
			zap.String("masterId", day.MasterID),
			zap.String("date", day.Date),
			zap.String("legId", prev.LegID))
		return true, nil
	}

	departure, err := models.DateTime(day.Date, prev.Time)
	if err != nil {
		return false, scheduling.InvalidArgument("day %s: %v", day.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, oracleTimeout)
	defer cancel()
	secs, err := r.Oracle.EstimateTravelSeconds(ctx, order.Location, location, departure)
	if errors.Is(err, travel.ErrNoRoute) {
		return false, nil
	}
	if err != nil {
		return false, scheduling.ExternalService(err, "travel time for master %s on %s", day.MasterID, day.Date)
	}
	return secs < r.SlotMinutes*60, nil
}
