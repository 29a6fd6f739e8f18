package orderRepo

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

func (r *mongoOrderRepo) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return &order, nil
}

func (r *mongoOrderRepo) GetByLegID(ctx context.Context, legID string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"legs.id": legID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order for leg %s: %w", legID, err)
	}
	return &order, nil
}

func (r *mongoOrderRepo) Update(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	order.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s not found", order.ID)
	}
	return nil
}

func (r *mongoOrderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

func (r *mongoOrderRepo) CountServedByMasters(ctx context.Context, clientID string, masterIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if clientID == "" || len(masterIDs) == 0 {
		return counts, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"clientId": clientID,
			"status":   bson.M{"$in": bson.A{models.OrderStatusActive, models.OrderStatusCompleted}},
		}}},
		{{Key: "$unwind", Value: "$legs"}},
		{{Key: "$match", Value: bson.M{"legs.masterId": bson.M{"$in": masterIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$legs.masterId",
			"orders": bson.M{"$addToSet": "$id"},
		}}},
		{{Key: "$project", Value: bson.M{"count": bson.M{"$size": "$orders"}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count served orders for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		MasterID string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode served counts: %w", err)
	}
	for _, row := range rows {
		counts[row.MasterID] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates the necessary indexes on the orders collection.
func (r *mongoOrderRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("client_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "legs.masterId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("leg_master_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "legs.id", Value: 1}},
			Options: options.Index().SetName("leg_id_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
