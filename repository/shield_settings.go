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

type ShieldSettingsRepo struct {
	MongoCollection *mongo.Collection
}

func GetShieldSettingsRepo(client *mongo.Client) *ShieldSettingsRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("SHIELD_SETTINGS_COLLECTION", "shield_settings")
	return &ShieldSettingsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ShieldSettingsRepo) Get(ctx context.Context, userID string) (*model.ShieldSettings, error) {
	timer := utils.TrackDBOperation("find", "shield_settings")
	defer timer.ObserveDuration()

	var settings model.ShieldSettings
	filter := bson.M{"user_id": userID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "shield_settings_lookup_error")
		return nil, err
	}

	return &settings, nil
}

// Upsert writes the user-editable settings fields. The shield status is
// deliberately left alone; only the state machine writes it.
func (r *ShieldSettingsRepo) Upsert(ctx context.Context, settings *model.ShieldSettings) error {
	timer := utils.TrackDBOperation("update", "shield_settings")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": settings.UserID}
	update := bson.M{
		"$set": bson.M{
			"is_shield_enabled":        settings.IsShieldEnabled,
			"inactivity_period_months": settings.InactivityPeriodMonths,
			"required_guardians":       settings.RequiredGuardians,
			"updated_at":               time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"user_id":          settings.UserID,
			"shield_status":    model.ShieldInactive,
			"last_activity_at": time.Now().UTC(),
			"last_check_at":    time.Time{},
		},
	}

	opts := mongoUpsert()
	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		utils.TrackError("database", "shield_settings_upsert_failed")
		return fmt.Errorf("failed to upsert shield settings: %w", err)
	}

	return nil
}

// ListEnabledWithStatus returns every enabled shield currently in the
// given status. Drives the inactivity sweep.
func (r *ShieldSettingsRepo) ListEnabledWithStatus(ctx context.Context, status model.ShieldStatus) ([]*model.ShieldSettings, error) {
	timer := utils.TrackDBOperation("find", "shield_settings")
	defer timer.ObserveDuration()

	filter := bson.M{
		"is_shield_enabled": true,
		"shield_status":     status,
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "shield_settings_list_failed")
		return nil, fmt.Errorf("failed to list shield settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []*model.ShieldSettings
	if err := cursor.All(ctx, &settings); err != nil {
		utils.TrackError("database", "shield_settings_decode_failed")
		return nil, fmt.Errorf("failed to decode shield settings: %w", err)
	}

	return settings, nil
}

// CompareAndSetStatus flips shield_status from -> to atomically. Returns
// model.ErrStateConflict when the document is no longer in the expected
// state, which callers treat as a lost race, not a failure.
func (r *ShieldSettingsRepo) CompareAndSetStatus(ctx context.Context, userID string, from, to model.ShieldStatus) error {
	timer := utils.TrackDBOperation("update", "shield_settings")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":       userID,
		"shield_status": from,
	}
	update := bson.M{
		"$set": bson.M{
			"shield_status": to,
			"updated_at":    time.Now().UTC(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "shield_status_cas_failed")
		return fmt.Errorf("failed to update shield status: %w", err)
	}

	if result.ModifiedCount == 0 {
		return fmt.Errorf("shield status is not %q for user %s: %w", from, userID, model.ErrStateConflict)
	}

	return nil
}

// RecordActivity stamps last_activity_at for the user.
func (r *ShieldSettingsRepo) RecordActivity(ctx context.Context, userID string, at time.Time) error {
	timer := utils.TrackDBOperation("update", "shield_settings")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"last_activity_at": at,
			"updated_at":       time.Now().UTC(),
		},
	}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "activity_update_failed")
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

// RecordCheck stamps last_check_at for observability; sweep correctness
// does not depend on it.
func (r *ShieldSettingsRepo) RecordCheck(ctx context.Context, userID string, at time.Time) error {
	timer := utils.TrackDBOperation("update", "shield_settings")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{"last_check_at": at}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "check_update_failed")
		return fmt.Errorf("failed to record check: %w", err)
	}

	return nil
}

// CountEnabled returns the number of users with the shield switched on.
func (r *ShieldSettingsRepo) CountEnabled(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "shield_settings")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"is_shield_enabled": true})
	if err != nil {
		utils.TrackError("database", "shield_count_failed")
		return 0, fmt.Errorf("failed to count enabled shields: %w", err)
	}
	return count, nil
}
