package repository

import (
	"context"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProfileRepo struct {
	MongoCollection *mongo.Collection
}

func GetProfileRepo(client *mongo.Client) *ProfileRepo {
	dbName := utils.GetEnvAsString("MONGO_DB", "familyshield")
	collectionName := utils.GetEnvAsString("PROFILES_COLLECTION", "profiles")
	return &ProfileRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	timer := utils.TrackDBOperation("find", "profiles")
	defer timer.ObserveDuration()

	var profile model.Profile
	filter := bson.M{"user_id": userID}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "profile_lookup_error")
		return nil, err
	}

	return &profile, nil
}
