package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

func (r *ProfileRepository) Get(ctx context.Context, influencerID string) (*models.InfluencerProfile, error) {
	var profile models.InfluencerProfile
	err := r.coll.FindOne(ctx, bson.M{"_id": influencerID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrProfileNotFound
		}
		return nil, wrap("get profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) SyncEngagement(ctx context.Context, influencerID, name string, joined, completed, reviews int, now time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": influencerID},
		bson.M{"$set": bson.M{
			"name":             name,
			"joined_offers":    joined,
			"completed_offers": completed,
			"total_reviews":    reviews,
			"updated_at":       now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return wrap("sync profile", err)
	}
	return nil
}
