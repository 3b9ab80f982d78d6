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

type AccessTokenRepo struct {
	MongoCollection *mongo.Collection
}

func GetAccessTokenRepo(client *mongo.Client) *AccessTokenRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("ACCESS_TOKENS_COLLECTION", "access_tokens")
	return &AccessTokenRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *AccessTokenRepo) Insert(ctx context.Context, token *model.AccessToken) error {
	timer := utils.TrackDBOperation("insert", "access_tokens")
	defer timer.ObserveDuration()

	if token.TokenHash == "" || token.UserID == "" || token.GuardianID == "" {
		utils.TrackError("database", "invalid_token_data")
		return fmt.Errorf("token hash, user id and guardian id required: %w", model.ErrValidation)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, token); err != nil {
		utils.TrackError("database", "token_creation_failed")
		return fmt.Errorf("failed to store access token: %w", err)
	}

	return nil
}

func (r *AccessTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*model.AccessToken, error) {
	timer := utils.TrackDBOperation("find", "access_tokens")
	defer timer.ObserveDuration()

	var token model.AccessToken
	filter := bson.M{"token_hash": tokenHash}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "token_lookup_error")
		return nil, err
	}

	return &token, nil
}

// IncrementAttempts bumps the attempt counter with a guarded $inc so
// parallel brute-force requests cannot skip past the lockout. Tokens
// reaching max_attempts are flipped to locked in the same write. Returns
// the post-increment token, or nil when the counter was already spent.
func (r *AccessTokenRepo) IncrementAttempts(ctx context.Context, tokenHash string) (*model.AccessToken, error) {
	timer := utils.TrackDBOperation("update", "access_tokens")
	defer timer.ObserveDuration()

	filter := bson.M{
		"token_hash": tokenHash,
		"status":     model.TokenActive,
		"$expr":      bson.M{"$lt": bson.A{"$attempt_count", "$max_attempts"}},
	}
	update := bson.M{
		"$inc": bson.M{"attempt_count": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token model.AccessToken
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "attempt_increment_failed")
		return nil, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if token.AttemptsExhausted() {
		lockFilter := bson.M{"token_hash": tokenHash, "status": model.TokenActive}
		lockUpdate := bson.M{"$set": bson.M{"status": model.TokenLocked}}
		if _, err := r.MongoCollection.UpdateOne(ctx, lockFilter, lockUpdate); err != nil {
			utils.TrackError("database", "token_lock_failed")
			return nil, fmt.Errorf("failed to lock token: %w", err)
		}
		token.Status = model.TokenLocked
	}

	return &token, nil
}

// RevokeAllForUser invalidates every token for the user immediately.
// Called synchronously on the active -> inactive transition.
func (r *AccessTokenRepo) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "access_tokens")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id": userID,
		"status":  model.TokenActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     model.TokenRevoked,
			"expires_at": time.Now().UTC(),
		},
	}

	result, err := r.MongoCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "token_revocation_failed")
		return 0, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return result.ModifiedCount, nil
}
