package repository

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotificationRepo(client *mongo.Client) *NotificationRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("NOTIFICATIONS_COLLECTION", "guardian_notifications")
	return &NotificationRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Enqueue stores a notification intent for the external mailer to drain.
// Delivery and retries belong to the mailer, not to this service.
func (r *NotificationRepo) Enqueue(ctx context.Context, notification *model.GuardianNotification) error {
	timer := utils.TrackDBOperation("insert", "guardian_notifications")
	defer timer.ObserveDuration()

	if notification.ID == "" {
		notification.ID = utils.GenerateID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	notification.DeliveryStatus = "pending"

	if _, err := r.MongoCollection.InsertOne(ctx, notification); err != nil {
		utils.TrackError("database", "notification_enqueue_failed")
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	utils.TrackNotification(string(notification.Kind))
	return nil
}

func (r *NotificationRepo) CountPending(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "guardian_notifications")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"delivery_status": "pending"})
	if err != nil {
		utils.TrackError("database", "notification_count_failed")
		return 0, fmt.Errorf("failed to count pending notifications: %w", err)
	}
	return count, nil
}
