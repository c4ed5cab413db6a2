package provisionRepo

import (
	"context"
	"errors"

	"telvia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Save upserts the run by its ID so retried saves stay idempotent.
func (r *mongoProvisionRepo) Save(ctx context.Context, run *models.SagaRun) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": run.ID}, run, opts)
	return err
}

// GetByID returns a run by its ID.
func (r *mongoProvisionRepo) GetByID(ctx context.Context, id string) (*models.SagaRun, error) {
	var run models.SagaRun
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("run not found")
		}
		return nil, err
	}
	return &run, nil
}

// ListByPartner fetches every run recorded for a partner, newest first.
func (r *mongoProvisionRepo) ListByPartner(ctx context.Context, partnerID int) ([]models.SagaRun, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"partnerId": partnerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []models.SagaRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
