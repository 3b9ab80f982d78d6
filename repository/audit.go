package repository

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

type AuditRepo struct {
	MongoCollection *mongo.Collection
}

func GetAuditRepo(client *mongo.Client) *AuditRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("AUDIT_COLLECTION", "access_audit")
	return &AuditRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Record appends an audit entry. Audit writes are best effort: a failed
// write is logged through metrics but never blocks the access path.
func (r *AuditRepo) Record(ctx context.Context, entry *model.AccessAuditEntry) error {
	timer := utils.TrackDBOperation("insert", "access_audit")
	defer timer.ObserveDuration()

	if entry.ID == "" {
		entry.ID = utils.GenerateID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if _, err := r.MongoCollection.InsertOne(ctx, entry); err != nil {
		utils.TrackError("database", "audit_write_failed")
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}
