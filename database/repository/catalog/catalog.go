package catalogRepo

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

// ServiceRepository reads and writes the service catalogue.
type ServiceRepository interface {
	// GetByID returns nil, nil for an unknown service.
	GetByID(ctx context.Context, id string) (*models.Service, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	Upsert(ctx context.Context, service *models.Service) error
	EnsureIndexes() error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo() ServiceRepository {
	return &mongoServiceRepo{coll: database.DB().Collection("services")}
}

func (r *mongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &svc, nil
}

func (r *mongoServiceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepo) Upsert(ctx context.Context, service *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": service.ID}, service, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", service.ID, err)
	}
	return nil
}

func (r *mongoServiceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("service_id_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}
