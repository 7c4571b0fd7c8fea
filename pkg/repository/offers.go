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

type OfferRepository struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{coll: db.Collection(offersCollection)}
}

func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	if _, err := r.coll.InsertOne(ctx, offer); err != nil {
		return wrap("insert offer", err)
	}
	return nil
}

func (r *OfferRepository) Get(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrOfferNotFound
		}
		return nil, wrap("get offer", err)
	}
	return &offer, nil
}

func (r *OfferRepository) ListActive(ctx context.Context, now time.Time) ([]models.Offer, error) {
	filter := bson.M{
		"is_active":   true,
		"valid_until": bson.M{"$gt": now},
	}
	return r.list(ctx, filter)
}

func (r *OfferRepository) ListByBusiness(ctx context.Context, businessID string) ([]models.Offer, error) {
	return r.list(ctx, bson.M{"business_id": businessID})
}

func (r *OfferRepository) list(ctx context.Context, filter bson.M) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("list offers", err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, wrap("decode offers", err)
	}
	return offers, nil
}

func (r *OfferRepository) Deactivate(ctx context.Context, offerID, businessID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": offerID, "business_id": businessID},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return wrap("deactivate offer", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing offer from one owned by someone else.
		if _, err := r.Get(ctx, offerID); err != nil {
			return err
		}
		return store.ErrNotOwner
	}
	return nil
}

func (r *OfferRepository) ReserveSlot(ctx context.Context, offerID string, max int, now time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":               offerID,
			"is_active":         true,
			"valid_until":       bson.M{"$gt": now},
			"participant_count": bson.M{"$lt": max},
		},
		bson.M{"$inc": bson.M{"participant_count": 1}},
	)
	if err != nil {
		return wrap("reserve slot", err)
	}
	if res.MatchedCount == 0 {
		return r.classifyReserveFailure(ctx, offerID, now)
	}
	return nil
}

// classifyReserveFailure re-reads the offer to report which condition of
// the conditional increment failed. The read is only for the error kind;
// the reservation itself already failed atomically.
func (r *OfferRepository) classifyReserveFailure(ctx context.Context, offerID string, now time.Time) error {
	offer, err := r.Get(ctx, offerID)
	if err != nil {
		return err
	}
	if !offer.IsActive || offer.Expired(now) {
		return store.ErrOfferExpired
	}
	return store.ErrCapacityReached
}

func (r *OfferRepository) ReleaseSlot(ctx context.Context, offerID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": offerID, "participant_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"participant_count": -1}},
	)
	if err != nil {
		return wrap("release slot", err)
	}
	return nil
}
