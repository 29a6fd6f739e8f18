package masterRepo

import (
	"context"

	"masterbook/database"
	"masterbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// MasterRepository is the persistence contract for masters.
type MasterRepository interface {
	// GetByID returns nil, nil when no master has the id.
	GetByID(ctx context.Context, id string) (*models.Master, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Master, error)
	// FindOfferingWithDayInRange returns active masters that offer at least
	// one of serviceIDs and own a calendar day in [dateFrom, dateTo].
	FindOfferingWithDayInRange(ctx context.Context, serviceIDs []string, dateFrom, dateTo string) ([]models.Master, error)
	Upsert(ctx context.Context, master *models.Master) error
	EnsureIndexes() error
}

// MongoMasterRepo implements MasterRepository using MongoDB.
type MongoMasterRepo struct {
	coll *mongo.Collection
	days *mongo.Collection
}

func NewMongoMasterRepo() MasterRepository {
	db := database.DB()
	return &MongoMasterRepo{
		coll: db.Collection("masters"),
		days: db.Collection("calendar_days"),
	}
}
