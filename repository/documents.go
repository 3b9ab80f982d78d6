package repository

import (
	"context"
	"fmt"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepo struct {
	MongoCollection *mongo.Collection
}

func GetDocumentRepo(client *mongo.Client) *DocumentRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("DOCUMENTS_COLLECTION", "documents")
	return &DocumentRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *DocumentRepo) Get(ctx context.Context, documentID string) (*model.Document, error) {
	timer := utils.TrackDBOperation("find", "documents")
	defer timer.ObserveDuration()

	var document model.Document
	filter := bson.M{"document_id": documentID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&document)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "document_lookup_error")
		return nil, err
	}

	return &document, nil
}

// ListByUser returns all of the user's document metadata, newest first.
// Scope filtering happens in the permission evaluator, not here.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]*model.Document, error) {
	timer := utils.TrackDBOperation("find", "documents")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "document_list_failed")
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var documents []*model.Document
	if err := cursor.All(ctx, &documents); err != nil {
		utils.TrackError("database", "document_decode_failed")
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return documents, nil
}
