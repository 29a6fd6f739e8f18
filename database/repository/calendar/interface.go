// File: database/repository/calendar/interface.go
package calendarRepo

import (
	"context"
	"errors"

	"masterbook/database"
	"masterbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrVersionConflict is returned when a day changed since it was loaded.
var ErrVersionConflict = errors.New("calendar day version mismatch")

type CalendarRepository interface {
	// GetDay returns nil, nil when the master has no day on date.
	GetDay(ctx context.Context, masterID, date string) (*models.CalendarDay, error)
	ListDays(ctx context.Context, masterID, dateFrom, dateTo string) ([]models.CalendarDay, error)
	Insert(ctx context.Context, day *models.CalendarDay) error
	// Save writes the slots if day.Version still matches and bumps it.
	Save(ctx context.Context, day *models.CalendarDay) error
	Delete(ctx context.Context, day *models.CalendarDay) error
	EnsureIndexes() error
}

type mongoCalendarRepo struct {
	coll *mongo.Collection
}

// NewMongoCalendarRepo constructs a CalendarRepository over "calendar_days".
func NewMongoCalendarRepo() CalendarRepository {
	return &mongoCalendarRepo{coll: database.DB().Collection("calendar_days")}
}
