package scheduling

import (
	"context"
	"errors"
	"fmt"

	calendarRepo "masterbook/database/repository/calendar"
	masterRepo "masterbook/database/repository/master"
	"masterbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarService persists slot calendar changes for masters.
type CalendarService interface {
	PublishSlots(ctx context.Context, masterID, date string, times []models.TimeOfDay) (*models.CalendarDay, error)
	RemoveSlot(ctx context.Context, masterID, date string, t models.TimeOfDay) error
	GetDay(ctx context.Context, masterID, date string) (*models.CalendarDay, error)
	ListDays(ctx context.Context, masterID, dateFrom, dateTo string) ([]models.CalendarDay, error)
}

type DefaultCalendarService struct {
	Days        calendarRepo.CalendarRepository
	Masters     masterRepo.MasterRepository
	SlotMinutes int
	Logger      *zap.Logger
}

func NewCalendarService(days calendarRepo.CalendarRepository, masters masterRepo.MasterRepository, slotMinutes int, logger *zap.Logger) *DefaultCalendarService {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return &DefaultCalendarService{Days: days, Masters: masters, SlotMinutes: slotMinutes, Logger: logger}
}

// PublishSlots opens the given times on the master's day, creating the day
// when it does not exist yet. Times already published are ignored.
func (s *DefaultCalendarService) PublishSlots(ctx context.Context, masterID, date string, times []models.TimeOfDay) (*models.CalendarDay, error) {
	if !models.ValidDate(date) {
		return nil, InvalidArgument("invalid date %q", date)
	}
	if len(times) == 0 {
		return nil, InvalidArgument("no slot times given")
	}
	master, err := s.Masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("PublishSlots: %w", err)
	}
	if master == nil {
		return nil, NotFound("master %s", masterID)
	}

	day, err := s.Days.GetDay(ctx, masterID, date)
	if err != nil {
		return nil, fmt.Errorf("PublishSlots: %w", err)
	}
	isNew := day == nil
	if isNew {
		day = &models.CalendarDay{ID: uuid.New().String(), MasterID: masterID, Date: date}
	}

	added, err := CreateSlots(day, times, s.SlotMinutes)
	if err != nil {
		return nil, err
	}

	switch {
	case isNew:
		err = s.Days.Insert(ctx, day)
	case len(added) > 0:
		err = s.Days.Save(ctx, day)
	}
	if errors.Is(err, calendarRepo.ErrVersionConflict) {
		return nil, Conflict("day %s of master %s changed concurrently", date, masterID)
	}
	if err != nil {
		return nil, fmt.Errorf("PublishSlots: %w", err)
	}

	s.Logger.Info("Slots published",
		zap.String("masterId", masterID),
		zap.String("date", date),
		zap.Int("added", len(added)),
		zap.Int("total", len(day.Slots)))
	return day, nil
}

// RemoveSlot deletes a free slot; the day goes away with its last slot.
func (s *DefaultCalendarService) RemoveSlot(ctx context.Context, masterID, date string, t models.TimeOfDay) error {
	day, err := s.GetDay(ctx, masterID, date)
	if err != nil {
		return err
	}
	before := len(day.Slots)
	if err := RemoveSlot(day, t); err != nil {
		return err
	}
	if len(day.Slots) == before {
		return nil
	}

	if len(day.Slots) == 0 {
		err = s.Days.Delete(ctx, day)
	} else {
		err = s.Days.Save(ctx, day)
	}
	if errors.Is(err, calendarRepo.ErrVersionConflict) {
		return Conflict("day %s of master %s changed concurrently", date, masterID)
	}
	if err != nil {
		return fmt.Errorf("RemoveSlot: %w", err)
	}
	return nil
}

func (s *DefaultCalendarService) GetDay(ctx context.Context, masterID, date string) (*models.CalendarDay, error) {
	day, err := s.Days.GetDay(ctx, masterID, date)
	if err != nil {
		return nil, fmt.Errorf("GetDay: %w", err)
	}
	if day == nil {
		return nil, NotFound("master %s has no calendar on %s", masterID, date)
	}
	return day, nil
}

func (s *DefaultCalendarService) ListDays(ctx context.Context, masterID, dateFrom, dateTo string) ([]models.CalendarDay, error) {
	if !models.ValidDate(dateFrom) || !models.ValidDate(dateTo) || dateTo < dateFrom {
		return nil, InvalidArgument("invalid date range %s..%s", dateFrom, dateTo)
	}
	days, err := s.Days.ListDays(ctx, masterID, dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("ListDays: %w", err)
	}
	return days, nil
}
