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

type ActivationRequestRepo struct {
	MongoCollection *mongo.Collection
}

func GetActivationRequestRepo(client *mongo.Client) *ActivationRequestRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("ACTIVATION_REQUESTS_COLLECTION", "activation_requests")
	return &ActivationRequestRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ActivationRequestRepo) Create(ctx context.Context, request *model.ActivationRequest) error {
	timer := utils.TrackDBOperation("insert", "activation_requests")
	defer timer.ObserveDuration()

	if request.ID == "" || request.UserID == "" {
		utils.TrackError("database", "invalid_activation_request")
		return fmt.Errorf("request id and user id required: %w", model.ErrValidation)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, request); err != nil {
		utils.TrackError("database", "activation_request_creation_failed")
		return fmt.Errorf("failed to create activation request: %w", err)
	}

	return nil
}

func (r *ActivationRequestRepo) Get(ctx context.Context, requestID string) (*model.ActivationRequest, error) {
	timer := utils.TrackDBOperation("find", "activation_requests")
	defer timer.ObserveDuration()

	var request model.ActivationRequest
	filter := bson.M{"request_id": requestID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "activation_request_lookup_error")
		return nil, err
	}

	return &request, nil
}

// FindCollectingByUser returns the user's non-terminal request, if any.
// At most one exists at a time; the sweep only creates a request after
// winning the shield status compare-and-set.
func (r *ActivationRequestRepo) FindCollectingByUser(ctx context.Context, userID string) (*model.ActivationRequest, error) {
	timer := utils.TrackDBOperation("find", "activation_requests")
	defer timer.ObserveDuration()

	var request model.ActivationRequest
	filter := bson.M{
		"user_id": userID,
		"status":  model.ActivationCollecting,
	}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "activation_request_lookup_error")
		return nil, err
	}

	return &request, nil
}

// AddConfirmation records a guardian confirmation with set semantics:
// $addToSet makes a duplicate confirm a no-op. The write only applies
// while the request is still collecting. Returns the post-update request
// or ErrStateConflict when the request left the collecting state.
func (r *ActivationRequestRepo) AddConfirmation(ctx context.Context, requestID, guardianID string) (*model.ActivationRequest, error) {
	timer := utils.TrackDBOperation("update", "activation_requests")
	defer timer.ObserveDuration()

	filter := bson.M{
		"request_id": requestID,
		"status":     model.ActivationCollecting,
	}
	update := bson.M{
		"$addToSet": bson.M{"confirmations": guardianID},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request model.ActivationRequest
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("request %s is not collecting: %w", requestID, model.ErrStateConflict)
		}
		utils.TrackError("database", "confirmation_write_failed")
		return nil, fmt.Errorf("failed to add confirmation: %w", err)
	}

	return &request, nil
}

// CompareAndSetStatus moves the request from -> to atomically. The
// quorum coordinator relies on this to fire the activation transition
// exactly once under concurrent confirmations.
func (r *ActivationRequestRepo) CompareAndSetStatus(ctx context.Context, requestID string, from, to model.ActivationStatus) error {
	timer := utils.TrackDBOperation("update", "activation_requests")
	defer timer.ObserveDuration()

	filter := bson.M{
		"request_id": requestID,
		"status":     from,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      to,
			"resolved_at": time.Now().UTC(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "activation_status_cas_failed")
		return fmt.Errorf("failed to update activation status: %w", err)
	}

	if result.ModifiedCount == 0 {
		return fmt.Errorf("request %s is not %q: %w", requestID, from, model.ErrStateConflict)
	}

	return nil
}

// CancelActiveForUser archives the user's non-cancelled, non-expired
// requests as cancelled. Cancellation wins over expiry: an expiry sweep
// racing this write loses its compare-and-set and drops out.
func (r *ActivationRequestRepo) CancelActiveForUser(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("update", "activation_requests")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": bson.A{model.ActivationCollecting, model.ActivationQuorumMet}},
	}
	update := bson.M{
		"$set": bson.M{
			"status":      model.ActivationCancelled,
			"resolved_at": time.Now().UTC(),
		},
	}

	result, err := r.MongoCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "activation_cancel_failed")
		return 0, fmt.Errorf("failed to cancel activation requests: %w", err)
	}

	return result.ModifiedCount, nil
}

// ListCollectingExpired returns collecting requests whose window has
// elapsed, for the protocol checker to expire.
func (r *ActivationRequestRepo) ListCollectingExpired(ctx context.Context, now time.Time) ([]*model.ActivationRequest, error) {
	timer := utils.TrackDBOperation("find", "activation_requests")
	defer timer.ObserveDuration()

	filter := bson.M{
		"status":     model.ActivationCollecting,
		"expires_at": bson.M{"$lte": now},
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "activation_request_list_failed")
		return nil, fmt.Errorf("failed to list expired requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.ActivationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		utils.TrackError("database", "activation_request_decode_failed")
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}

	return requests, nil
}

// ListCollecting returns every request still inside its window.
func (r *ActivationRequestRepo) ListCollecting(ctx context.Context, now time.Time) ([]*model.ActivationRequest, error) {
	timer := utils.TrackDBOperation("find", "activation_requests")
	defer timer.ObserveDuration()

	filter := bson.M{
		"status":     model.ActivationCollecting,
		"expires_at": bson.M{"$gt": now},
	}

	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "activation_request_list_failed")
		return nil, fmt.Errorf("failed to list collecting requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*model.ActivationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		utils.TrackError("database", "activation_request_decode_failed")
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}

	return requests, nil
}

// CountByStatus counts requests in the given status.
func (r *ActivationRequestRepo) CountByStatus(ctx context.Context, status model.ActivationStatus) (int64, error) {
	timer := utils.TrackDBOperation("count", "activation_requests")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		utils.TrackError("database", "activation_request_count_failed")
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}
