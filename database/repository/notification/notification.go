package notificationRepo

import (
	"context"
	"time"

	"telvia/database"
	"telvia/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository stores dashboard notifications written by background workers.
type Repository interface {
	Save(ctx context.Context, n models.Notification) (string, error)
	ListByPartner(ctx context.Context, partnerID int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a Repository instance using MongoDB.
func NewMongoNotificationRepo() Repository {
	return &mongoNotificationRepo{
		coll: database.Database().Collection("notifications"),
	}
}

// Save inserts a new notification and returns its ID.
func (r *mongoNotificationRepo) Save(ctx context.Context, n models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// ListByPartner fetches a partner's notifications, newest first.
func (r *mongoNotificationRepo) ListByPartner(ctx context.Context, partnerID int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"partnerId": partnerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags a notification as read.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"read": true}})
	return err
}
