// File: database/repository/calendar/crud.go
package calendarRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"masterbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCalendarRepo) GetDay(ctx context.Context, masterID, date string) (*models.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var day models.CalendarDay
	err := r.coll.FindOne(ctx, bson.M{"masterId": masterID, "date": date}).Decode(&day)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day %s for master %s: %w", date, masterID, err)
	}
	return &day, nil
}

func (r *mongoCalendarRepo) ListDays(ctx context.Context, masterID, dateFrom, dateTo string) ([]models.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"masterId": masterID,
		"date":     bson.M{"$gte": dateFrom, "$lte": dateTo},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list days for master %s: %w", masterID, err)
	}
	defer cursor.Close(ctx)

	var days []models.CalendarDay
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode days for master %s: %w", masterID, err)
	}
	return days, nil
}

func (r *mongoCalendarRepo) Insert(ctx context.Context, day *models.CalendarDay) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	day.CreatedAt, day.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, day); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to insert day %s for master %s: %w", day.Date, day.MasterID, err)
	}
	return nil
}

func (r *mongoCalendarRepo) Save(ctx context.Context, day *models.CalendarDay) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": day.ID, "version": day.Version}
	update := bson.M{
		"$set": bson.M{"slots": day.Slots, "updatedAt": now},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save day %s for master %s: %w", day.Date, day.MasterID, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	day.Version++
	day.UpdatedAt = now
	return nil
}

func (r *mongoCalendarRepo) Delete(ctx context.Context, day *models.CalendarDay) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": day.ID, "version": day.Version})
	if err != nil {
		return fmt.Errorf("failed to delete day %s for master %s: %w", day.Date, day.MasterID, err)
	}
	if res.DeletedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}
