package provisionRepo

import (
	"context"

	"telvia/database"
	"telvia/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists saga runs. Runs are append-mostly: the orchestrators
// save the finished record once and support staff read them back.
type Repository interface {
	Save(ctx context.Context, run *models.SagaRun) error
	GetByID(ctx context.Context, id string) (*models.SagaRun, error)
	ListByPartner(ctx context.Context, partnerID int) ([]models.SagaRun, error)
}

type mongoProvisionRepo struct {
	coll *mongo.Collection
}

// NewMongoProvisionRepo returns a Repository instance using MongoDB.
func NewMongoProvisionRepo() Repository {
	return &mongoProvisionRepo{
		coll: database.Database().Collection("provision_runs"),
	}
}
