package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"masterbook/database"
	"masterbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShareRepository stores pending payout shares. Writes are keyed by
// (masterId, legId) and are safe to repeat.
type ShareRepository interface {
	UpsertPending(ctx context.Context, share *models.PendingShare) error
	MarkCancelled(ctx context.Context, masterID, legID string) error
	ListByOrder(ctx context.Context, orderID string) ([]models.PendingShare, error)
	EnsureIndexes() error
}

type mongoShareRepo struct {
	coll *mongo.Collection
}

func NewMongoShareRepo() ShareRepository {
	return &mongoShareRepo{coll: database.DB().Collection("pending_shares")}
}

func (r *mongoShareRepo) UpsertPending(ctx context.Context, share *models.PendingShare) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"masterId": share.MasterID, "legId": share.LegID}
	update := bson.M{
		"$set": bson.M{
			"orderId":   share.OrderID,
			"amount":    share.Amount,
			"status":    models.ShareStatusPending,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"createdAt": now,
		},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to record pending share for master %s leg %s: %w", share.MasterID, share.LegID, err)
	}
	share.Status = models.ShareStatusPending
	return nil
}

func (r *mongoShareRepo) MarkCancelled(ctx context.Context, masterID, legID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"masterId": masterID, "legId": legID}
	update := bson.M{"$set": bson.M{"status": models.ShareStatusCancelled, "updatedAt": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to cancel pending share for master %s leg %s: %w", masterID, legID, err)
	}
	return nil
}

func (r *mongoShareRepo) ListByOrder(ctx context.Context, orderID string) ([]models.PendingShare, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to list shares of order %s: %w", orderID, err)
	}
	defer cursor.Close(ctx)

	var shares []models.PendingShare
	if err := cursor.All(ctx, &shares); err != nil {
		return nil, fmt.Errorf("failed to decode shares of order %s: %w", orderID, err)
	}
	return shares, nil
}

// EnsureIndexes creates the necessary indexes on the pending_shares collection.
func (r *mongoShareRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "masterId", Value: 1}, {Key: "legId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("master_leg_idx"),
		},
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("order_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create pending share indexes: %w", err)
	}
	return nil
}
