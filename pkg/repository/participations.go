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

type ParticipationRepository struct {
	coll *mongo.Collection
}

func NewParticipationRepository(db *mongo.Database) *ParticipationRepository {
	return &ParticipationRepository{coll: db.Collection(participationsCollection)}
}

func (r *ParticipationRepository) Insert(ctx context.Context, p *models.Participation) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		// The unique index on (offer_id, influencer_id) is the real guard
		// against duplicate joins; the ledger's pre-check is only a fast
		// path.
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyJoined
		}
		return wrap("insert participation", err)
	}
	return nil
}

func (r *ParticipationRepository) Get(ctx context.Context, offerID, influencerID string) (*models.Participation, error) {
	return r.findOne(ctx, bson.M{"offer_id": offerID, "influencer_id": influencerID})
}

func (r *ParticipationRepository) GetByToken(ctx context.Context, token, offerID string) (*models.Participation, error) {
	return r.findOne(ctx, bson.M{"redemption_token": token, "offer_id": offerID})
}

func (r *ParticipationRepository) findOne(ctx context.Context, filter bson.M) (*models.Participation, error) {
	var p models.Participation
	err := r.coll.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrParticipationNotFound
		}
		return nil, wrap("get participation", err)
	}
	return &p, nil
}

func (r *ParticipationRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]models.Participation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"influencer_id": influencerID}, opts)
	if err != nil {
		return nil, wrap("list participations", err)
	}
	defer cursor.Close(ctx)

	var out []models.Participation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, wrap("decode participations", err)
	}
	return out, nil
}

func (r *ParticipationRepository) CountByInfluencer(ctx context.Context, influencerID string, state models.ParticipationState) (int, error) {
	filter := bson.M{"influencer_id": influencerID}
	if state != "" {
		filter["state"] = state
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrap("count participations", err)
	}
	return int(n), nil
}

func (r *ParticipationRepository) MarkRedeemed(ctx context.Context, token, offerID string, now time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"redemption_token": token,
			"offer_id":         offerID,
			"state":            models.StateJoined,
		},
		bson.M{"$set": bson.M{
			"state":       models.StateRedeemed,
			"redeemed_at": now,
		}},
	)
	if err != nil {
		return wrap("mark redeemed", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByToken(ctx, token, offerID); err != nil {
			return err
		}
		return store.ErrAlreadyRedeemed
	}
	return nil
}

func (r *ParticipationRepository) MarkCompleted(ctx context.Context, offerID, influencerID string, now time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"offer_id":      offerID,
			"influencer_id": influencerID,
			"state":         bson.M{"$ne": models.StateCompleted},
		},
		bson.M{"$set": bson.M{
			"state":        models.StateCompleted,
			"completed_at": now,
		}},
	)
	if err != nil {
		return wrap("mark completed", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.Get(ctx, offerID, influencerID); err != nil {
			return err
		}
		return store.ErrAlreadyCompleted
	}
	return nil
}
