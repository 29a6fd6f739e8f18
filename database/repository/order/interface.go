package orderRepo

import (
	"context"

	"masterbook/database"
	"masterbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	// GetByID returns nil, nil for an unknown order.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetByLegID returns the order holding the leg, or nil, nil.
	GetByLegID(ctx context.Context, legID string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	// CountServedByMasters counts, per master, the active or completed
	// orders the client has had with that master.
	CountServedByMasters(ctx context.Context, clientID string, masterIDs []string) (map[string]int, error)
	EnsureIndexes() error
}

type mongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo() OrderRepository {
	return &mongoOrderRepo{coll: database.DB().Collection("orders")}
}
