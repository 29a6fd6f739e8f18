package masterRepo

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

func (r *MongoMasterRepo) GetByID(ctx context.Context, id string) (*models.Master, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var master models.Master
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&master)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch master with id %s: %w", id, err)
	}
	return &master, nil
}

func (r *MongoMasterRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Master, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch masters: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode masters: %w", err)
	}
	return masters, nil
}

func (r *MongoMasterRepo) FindOfferingWithDayInRange(ctx context.Context, serviceIDs []string, dateFrom, dateTo string) ([]models.Master, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Step 1: masters owning at least one day in range.
	raw, err := r.days.Distinct(ctx, "masterId", bson.M{
		"date": bson.M{"$gte": dateFrom, "$lte": dateTo},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect masters with days in range: %w", err)
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// Step 2: of those, the active ones offering a requested service.
	filter := bson.M{
		"id":         bson.M{"$in": ids},
		"serviceIds": bson.M{"$in": serviceIDs},
		"status":     models.MasterStatusActive,
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find masters offering services: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode masters: %w", err)
	}
	return masters, nil
}

func (r *MongoMasterRepo) Upsert(ctx context.Context, master *models.Master) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if master.CreatedAt.IsZero() {
		master.CreatedAt = now
	}
	master.UpdatedAt = now
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": master.ID}, master, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert master %s: %w", master.ID, err)
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the masters collection.
func (r *MongoMasterRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "serviceIds", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("services_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "locationGeo", Value: "2dsphere"}},
			Options: options.Index().SetName("location_geo_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create master indexes: %w", err)
	}
	return nil
}
