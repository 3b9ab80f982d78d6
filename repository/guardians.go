package repository

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GuardianRepo struct {
	MongoCollection *mongo.Collection
}

func GetGuardianRepo(client *mongo.Client) *GuardianRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("GUARDIANS_COLLECTION", "guardians")
	return &GuardianRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *GuardianRepo) Create(ctx context.Context, guardian *model.Guardian) error {
	timer := utils.TrackDBOperation("insert", "guardians")
	defer timer.ObserveDuration()

	if guardian.ID == "" || guardian.UserID == "" {
		utils.TrackError("database", "invalid_guardian_data")
		return fmt.Errorf("guardian id and user id required: %w", model.ErrValidation)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, guardian); err != nil {
		utils.TrackError("database", "guardian_creation_failed")
		return fmt.Errorf("failed to create guardian: %w", err)
	}

	return nil
}

func (r *GuardianRepo) Get(ctx context.Context, guardianID string) (*model.Guardian, error) {
	timer := utils.TrackDBOperation("find", "guardians")
	defer timer.ObserveDuration()

	var guardian model.Guardian
	filter := bson.M{"guardian_id": guardianID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&guardian)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "guardian_lookup_error")
		return nil, err
	}

	return &guardian, nil
}

// ListByUser returns the user's guardians ordered by priority.
func (r *GuardianRepo) ListByUser(ctx context.Context, userID string) ([]*model.Guardian, error) {
	timer := utils.TrackDBOperation("find", "guardians")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "guardian_list_failed")
		return nil, fmt.Errorf("failed to list guardians: %w", err)
	}
	defer cursor.Close(ctx)

	var guardians []*model.Guardian
	if err := cursor.All(ctx, &guardians); err != nil {
		utils.TrackError("database", "guardian_decode_failed")
		return nil, fmt.Errorf("failed to decode guardians: %w", err)
	}

	return guardians, nil
}

func (r *GuardianRepo) Update(ctx context.Context, guardian *model.Guardian) (int64, error) {
	timer := utils.TrackDBOperation("update", "guardians")
	defer timer.ObserveDuration()

	filter := bson.M{
		"guardian_id": guardian.ID,
		"user_id":     guardian.UserID,
	}
	update := bson.M{
		"$set": bson.M{
			"name":                  guardian.Name,
			"email":                 guardian.Email,
			"phone":                 guardian.Phone,
			"relationship":          guardian.Relationship,
			"can_trigger_emergency": guardian.CanTriggerEmergency,
			"priority":              guardian.Priority,
			"permissions":           guardian.Permissions,
			"updated_at":            time.Now().UTC(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "guardian_update_failed")
		return 0, fmt.Errorf("failed to update guardian: %w", err)
	}

	return result.MatchedCount, nil
}

func (r *GuardianRepo) Delete(ctx context.Context, userID, guardianID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "guardians")
	defer timer.ObserveDuration()

	filter := bson.M{
		"guardian_id": guardianID,
		"user_id":     userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "guardian_deletion_failed")
		return 0, fmt.Errorf("failed to delete guardian: %w", err)
	}

	return result.DeletedCount, nil
}
