package booking

import (
	"context"
	"fmt"

	"masterbook/config"
	calendarRepo "masterbook/database/repository/calendar"
	catalogRepo "masterbook/database/repository/catalog"
	masterRepo "masterbook/database/repository/master"
	orderRepo "masterbook/database/repository/order"
	"masterbook/models"
	"masterbook/services/scheduling"

	"go.uber.org/zap"
)

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	Masters  masterRepo.MasterRepository
	Days     calendarRepo.CalendarRepository
	Services catalogRepo.ServiceRepository
	Orders   orderRepo.OrderRepository
	Reach    *Reachability
	Engine   *scheduling.Engine
	Config   config.SchedulingConfig
	Logger   *zap.Logger
}

func NewMatchingService(
	masters masterRepo.MasterRepository,
	days calendarRepo.CalendarRepository,
	services catalogRepo.ServiceRepository,
	orders orderRepo.OrderRepository,
	reach *Reachability,
	cfg config.SchedulingConfig,
	logger *zap.Logger,
) *DefaultMatchingService {
	return &DefaultMatchingService{
		Masters:  masters,
		Days:     days,
		Services: services,
		Orders:   orders,
		Reach:    reach,
		Engine:   scheduling.NewEngine(cfg.SlotDurationMinutes),
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *DefaultMatchingService) maxDistance(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return s.Config.DefaultMaxDistanceKm
}

// Search returns every master who can perform at least one requested
// service somewhere in the date and time range, ranked and split into
// favorites and regular masters.
func (s *DefaultMatchingService) Search(ctx context.Context, criteria models.SearchCriteria) (*models.SearchResult, error) {
	if err := validateSearch(criteria); err != nil {
		return nil, err
	}
	services, err := s.loadServices(ctx, criteria.ServiceIDs)
	if err != nil {
		return nil, err
	}

	masters, err := s.Masters.FindOfferingWithDayInRange(ctx, criteria.ServiceIDs, criteria.DateFrom, criteria.DateTo)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	maxD := s.maxDistance(criteria.MaxDistanceKm)
	seen := make(map[string]bool, len(masters))
	var ranked []models.RankedMaster
	for _, m := range masters {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		dist := distanceKm(m.LocationGeo, criteria.Location)
		if dist > maxD {
			continue
		}

		days, err := s.Days.ListDays(ctx, m.ID, criteria.DateFrom, criteria.DateTo)
		if err != nil {
			return nil, fmt.Errorf("Search: %w", err)
		}
		var starts []models.AvailableStart
		for _, day := range days {
			for _, svc := range services {
				if !m.Offers(svc.ID) {
					continue
				}
				for _, t := range s.Engine.StartsWithin(svc, day.Slots, criteria.TimeFrom, criteria.TimeTo) {
					starts = append(starts, models.AvailableStart{Date: day.Date, Time: t, ServiceID: svc.ID})
				}
			}
		}
		if len(starts) == 0 {
			continue
		}

		ranked = append(ranked, models.RankedMaster{
			Master:     m,
			Score:      scoreFor(dist, maxD, m.Rating),
			DistanceKm: dist,
			Starts:     starts,
		})
	}
	Rank(ranked)

	served := map[string]int{}
	if criteria.ClientID != "" && len(ranked) > 0 {
		ids := make([]string, len(ranked))
		for i, rm := range ranked {
			ids[i] = rm.Master.ID
		}
		served, err = s.Orders.CountServedByMasters(ctx, criteria.ClientID, ids)
		if err != nil {
			return nil, fmt.Errorf("Search: %w", err)
		}
	}

	res := Split(ranked, served)
	s.Logger.Debug("Search finished",
		zap.Strings("serviceIds", criteria.ServiceIDs),
		zap.Int("candidates", len(masters)),
		zap.Int("favorites", len(res.Favorites)),
		zap.Int("regular", len(res.Regular)))
	return res, nil
}

// SearchPinpoint returns the ranked masters able to start the service at
// exactly the given date and time and reach the location in time.
func (s *DefaultMatchingService) SearchPinpoint(ctx context.Context, criteria models.PinpointCriteria) ([]models.RankedMaster, error) {
	if criteria.ServiceID == "" {
		return nil, scheduling.InvalidArgument("service is required")
	}
	if !models.ValidDate(criteria.Date) {
		return nil, scheduling.InvalidArgument("invalid date %q", criteria.Date)
	}
	if criteria.Time < 0 || criteria.Time >= models.EndOfDay {
		return nil, scheduling.InvalidArgument("invalid time %d", int(criteria.Time))
	}
	if !criteria.Location.Valid() {
		return nil, scheduling.InvalidArgument("invalid location")
	}
	svc, err := s.Services.GetByID(ctx, criteria.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("SearchPinpoint: %w", err)
	}
	if svc == nil {
		return nil, scheduling.NotFound("service %s", criteria.ServiceID)
	}

	masters, err := s.Masters.FindOfferingWithDayInRange(ctx, []string{svc.ID}, criteria.Date, criteria.Date)
	if err != nil {
		return nil, fmt.Errorf("SearchPinpoint: %w", err)
	}

	excluded := make(map[string]bool, len(criteria.ExcludeMasterIDs))
	for _, id := range criteria.ExcludeMasterIDs {
		excluded[id] = true
	}

	maxD := s.maxDistance(criteria.MaxDistanceKm)
	var ranked []models.RankedMaster
	for _, m := range masters {
		if excluded[m.ID] {
			continue
		}
		excluded[m.ID] = true

		dist := distanceKm(m.LocationGeo, criteria.Location)
		if dist > maxD {
			continue
		}

		day, err := s.Days.GetDay(ctx, m.ID, criteria.Date)
		if err != nil {
			return nil, fmt.Errorf("SearchPinpoint: %w", err)
		}
		if day == nil || !s.fitsAt(*svc, day, criteria.Time) {
			continue
		}

		ok, err := s.Reach.CanReach(ctx, day, criteria.Location, criteria.Time)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ranked = append(ranked, models.RankedMaster{
			Master:     m,
			Score:      scoreFor(dist, maxD, m.Rating),
			DistanceKm: dist,
			Starts:     []models.AvailableStart{{Date: criteria.Date, Time: criteria.Time, ServiceID: svc.ID}},
		})
	}
	Rank(ranked)
	return ranked, nil
}

// fitsAt reports whether the service can start exactly at t on the day.
func (s *DefaultMatchingService) fitsAt(svc models.Service, day *models.CalendarDay, t models.TimeOfDay) bool {
	slot, ok := scheduling.FindSlot(day, t)
	if !ok || slot.Occupied {
		return false
	}
	fits, err := s.Engine.ServiceFitsIntoSlots(svc, day.Slots, t, t.Add(svc.MaxDuration))
	return err == nil && fits
}

func (s *DefaultMatchingService) loadServices(ctx context.Context, ids []string) ([]models.Service, error) {
	services, err := s.Services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loadServices: %w", err)
	}
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}
	ordered := make([]models.Service, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, scheduling.NotFound("service %s", id)
		}
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, svc)
		}
	}
	return ordered, nil
}

func validateSearch(c models.SearchCriteria) error {
	if len(c.ServiceIDs) == 0 {
		return scheduling.InvalidArgument("at least one service is required")
	}
	if !models.ValidDate(c.DateFrom) || !models.ValidDate(c.DateTo) {
		return scheduling.InvalidArgument("invalid date range %q..%q", c.DateFrom, c.DateTo)
	}
	if c.DateTo < c.DateFrom {
		return scheduling.InvalidArgument("date range ends before it starts")
	}
	if c.TimeTo <= c.TimeFrom {
		return scheduling.InvalidArgument("time range %s..%s is empty", c.TimeFrom, c.TimeTo)
	}
	if !c.Location.Valid() {
		return scheduling.InvalidArgument("invalid location")
	}
	if c.MaxDistanceKm < 0 {
		return scheduling.InvalidArgument("max distance must not be negative")
	}
	return nil
}
