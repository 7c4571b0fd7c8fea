// Package store defines the persistence interfaces the service layers are
// built against. Two implementations exist: pkg/repository (MongoDB) and
// pkg/repository/memory (mutex-guarded maps for tests and local dev).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/treylee/vibein-service/pkg/models"
)

var (
	ErrOfferNotFound         = errors.New("offer not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrVibeNotFound          = errors.New("vibe message not found")
	ErrProfileNotFound       = errors.New("influencer profile not found")

	ErrNotOwner        = errors.New("offer belongs to another business")
	ErrOfferExpired    = errors.New("offer is expired or deactivated")
	ErrCapacityReached = errors.New("offer has no spots left")
	ErrAlreadyJoined   = errors.New("influencer already joined this offer")

	ErrAlreadyRedeemed  = errors.New("redemption token already used")
	ErrAlreadyCompleted = errors.New("participation already completed")
	ErrVibeResolved     = errors.New("vibe message already resolved")

	// ErrUnavailable wraps transient store failures; callers may retry.
	ErrUnavailable = errors.New("store unavailable")
)

type OfferStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	Get(ctx context.Context, id string) (*models.Offer, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Offer, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.Offer, error)

	// Deactivate sets isActive=false if businessID owns the offer.
	// Deactivating an already-inactive offer succeeds (idempotent).
	Deactivate(ctx context.Context, offerID, businessID string) error

	// ReserveSlot increments participant_count by one, conditioned on the
	// offer being active, unexpired, and below max. The condition and the
	// increment are a single conditional write; two concurrent reservations
	// for the last slot cannot both succeed. max is the offer's immutable
	// max_participants, supplied by the caller from the loaded offer.
	ReserveSlot(ctx context.Context, offerID string, max int, now time.Time) error

	// ReleaseSlot undoes a reservation whose participation insert lost a
	// duplicate-join race. Never drops the count below zero.
	ReleaseSlot(ctx context.Context, offerID string) error
}

type ParticipationStore interface {
	// Insert fails with ErrAlreadyJoined when a participation for the same
	// (offer, influencer) pair exists.
	Insert(ctx context.Context, p *models.Participation) error
	Get(ctx context.Context, offerID, influencerID string) (*models.Participation, error)

	// GetByToken matches on both the token and the offer id it was issued
	// for; a token presented against the wrong offer is not found.
	GetByToken(ctx context.Context, token, offerID string) (*models.Participation, error)

	ListByInfluencer(ctx context.Context, influencerID string) ([]models.Participation, error)
	CountByInfluencer(ctx context.Context, influencerID string, state models.ParticipationState) (int, error)

	// MarkRedeemed transitions joined -> redeemed, conditioned on the state
	// still being joined at write time. A lost race or a repeat scan fails
	// with ErrAlreadyRedeemed.
	MarkRedeemed(ctx context.Context, token, offerID string, now time.Time) error

	// MarkCompleted transitions to completed from any non-completed state,
	// conditioned on the state at write time. Fails with
	// ErrAlreadyCompleted if the participation is already completed.
	MarkCompleted(ctx context.Context, offerID, influencerID string, now time.Time) error
}

type VibeStore interface {
	Insert(ctx context.Context, msg *models.VibeMessage) error
	Get(ctx context.Context, id string) (*models.VibeMessage, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.VibeMessage, error)
	ListByInfluencer(ctx context.Context, influencerID string) ([]models.VibeMessage, error)

	// UpdateStatus resolves a pending message. Fails with ErrVibeResolved
	// once the message has left pending.
	UpdateStatus(ctx context.Context, id string, status models.VibeStatus, now time.Time) error
}

type ProfileStore interface {
	Get(ctx context.Context, influencerID string) (*models.InfluencerProfile, error)

	// SyncEngagement writes absolute counter values, creating the profile
	// if needed. Counters are derived from participations, so repeating a
	// sync is harmless.
	SyncEngagement(ctx context.Context, influencerID, name string, joined, completed, reviews int, now time.Time) error
}
