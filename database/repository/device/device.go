package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"masterbook/database"
	"masterbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeviceRepository keeps the push token of each master and client.
type DeviceRepository interface {
	Upsert(ctx context.Context, device *models.Device) error
	// GetToken returns "" when the owner has no registered device.
	GetToken(ctx context.Context, ownerID, role string) (string, error)
	EnsureIndexes() error
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

func NewMongoDeviceRepo() DeviceRepository {
	return &mongoDeviceRepo{coll: database.DB().Collection("devices")}
}

func (r *mongoDeviceRepo) Upsert(ctx context.Context, device *models.Device) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	device.UpdatedAt = time.Now().UTC()
	filter := bson.M{"ownerId": device.OwnerID, "role": device.Role}
	if _, err := r.coll.ReplaceOne(ctx, filter, device, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to register device for %s %s: %w", device.Role, device.OwnerID, err)
	}
	return nil
}

func (r *mongoDeviceRepo) GetToken(ctx context.Context, ownerID, role string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var device models.Device
	err := r.coll.FindOne(ctx, bson.M{"ownerId": ownerID, "role": role}).Decode(&device)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch device for %s %s: %w", role, ownerID, err)
	}
	return device.FCMToken, nil
}

func (r *mongoDeviceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("owner_role_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create device indexes: %w", err)
	}
	return nil
}
