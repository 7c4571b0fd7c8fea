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

type VibeRepository struct {
	coll *mongo.Collection
}

func NewVibeRepository(db *mongo.Database) *VibeRepository {
	return &VibeRepository{coll: db.Collection(vibesCollection)}
}

func (r *VibeRepository) Insert(ctx context.Context, msg *models.VibeMessage) error {
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return wrap("insert vibe", err)
	}
	return nil
}

func (r *VibeRepository) Get(ctx context.Context, id string) (*models.VibeMessage, error) {
	var msg models.VibeMessage
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrVibeNotFound
		}
		return nil, wrap("get vibe", err)
	}
	return &msg, nil
}

func (r *VibeRepository) ListByBusiness(ctx context.Context, businessID string) ([]models.VibeMessage, error) {
	return r.list(ctx, bson.M{"business_id": businessID})
}

func (r *VibeRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]models.VibeMessage, error) {
	return r.list(ctx, bson.M{"influencer_id": influencerID})
}

func (r *VibeRepository) list(ctx context.Context, filter bson.M) ([]models.VibeMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("list vibes", err)
	}
	defer cursor.Close(ctx)

	var out []models.VibeMessage
	if err := cursor.All(ctx, &out); err != nil {
		return nil, wrap("decode vibes", err)
	}
	return out, nil
}

func (r *VibeRepository) UpdateStatus(ctx context.Context, id string, status models.VibeStatus, now time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.VibePending},
		bson.M{"$set": bson.M{
			"status":       status,
			"responded_at": now,
		}},
	)
	if err != nil {
		return wrap("update vibe status", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return store.ErrVibeResolved
	}
	return nil
}
