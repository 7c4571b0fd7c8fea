package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	// The unique index on (offer_id, influencer_id) enforces at-most-one
	// participation per pair; the unique token index backs redemption
	// lookups. Both are load-bearing, not just query acceleration.
	participationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "offer_id", Value: 1},
				{Key: "influencer_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "redemption_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "influencer_id", Value: 1},
				{Key: "state", Value: 1},
			},
		},
	}
	if _, err := db.Collection("participations").Indexes().CreateMany(ctx, participationIndexes); err != nil {
		return fmt.Errorf("failed to create participation indexes: %w", err)
	}

	offerIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "valid_until", Value: 1},
			},
		},
	}
	if _, err := db.Collection("offers").Indexes().CreateMany(ctx, offerIndexes); err != nil {
		return fmt.Errorf("failed to create offer indexes: %w", err)
	}

	vibeIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "sent_at", Value: -1}}},
		{Keys: bson.D{{Key: "influencer_id", Value: 1}, {Key: "sent_at", Value: -1}}},
	}
	if _, err := db.Collection("vibes").Indexes().CreateMany(ctx, vibeIndexes); err != nil {
		return fmt.Errorf("failed to create vibe indexes: %w", err)
	}

	return nil
}
