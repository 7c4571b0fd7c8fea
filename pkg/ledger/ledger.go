// Package ledger tracks which influencer joined which offer and guards the
// capacity and uniqueness invariants of joining.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

var ErrPlatformNotAllowed = errors.New("platform not offered by this business")

type Ledger struct {
	offers   store.OfferStore
	parts    store.ParticipationStore
	profiles store.ProfileStore

	now      func() time.Time
	newToken func() string
}

func New(offers store.OfferStore, parts store.ParticipationStore, profiles store.ProfileStore) *Ledger {
	return &Ledger{
		offers:   offers,
		parts:    parts,
		profiles: profiles,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Join creates a participation in state joined with a fresh redemption
// token and takes one slot on the offer. The slot is taken with a
// conditional increment, so concurrent joins can never push the count past
// max_participants; the unique (offer, influencer) index catches duplicate
// joins that slip past the pre-check, and their reservation is released.
func (l *Ledger) Join(ctx context.Context, offerID, influencerID, influencerName string, platform models.Platform) (*models.Participation, error) {
	offer, err := l.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	if !offer.IsActive || offer.Expired(now) {
		return nil, store.ErrOfferExpired
	}
	if !offer.AllowsPlatform(platform) {
		return nil, ErrPlatformNotAllowed
	}
	if _, err := l.parts.Get(ctx, offerID, influencerID); err == nil {
		return nil, store.ErrAlreadyJoined
	} else if !errors.Is(err, store.ErrParticipationNotFound) {
		return nil, err
	}

	if err := l.offers.ReserveSlot(ctx, offerID, offer.MaxParticipants, now); err != nil {
		return nil, err
	}

	p := &models.Participation{
		ID:              uuid.NewString(),
		OfferID:         offerID,
		InfluencerID:    influencerID,
		InfluencerName:  influencerName,
		Platform:        platform,
		State:           models.StateJoined,
		RedemptionToken: l.newToken(),
		JoinedAt:        now,
	}
	if err := l.parts.Insert(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyJoined) {
			l.releaseSlot(ctx, offerID)
			return nil, err
		}
		// A transient insert failure may or may not have landed the write.
		// Release the reservation only when no participation exists, so a
		// retry does not stack phantom slots on the offer.
		if _, getErr := l.parts.Get(ctx, offerID, influencerID); errors.Is(getErr, store.ErrParticipationNotFound) {
			l.releaseSlot(ctx, offerID)
		}
		return nil, err
	}

	l.syncProfile(ctx, influencerID, influencerName)
	return p, nil
}

func (l *Ledger) releaseSlot(ctx context.Context, offerID string) {
	if err := l.offers.ReleaseSlot(ctx, offerID); err != nil {
		logrus.WithFields(logrus.Fields{
			"offer_id": offerID,
			"error":    err,
		}).Error("Join: failed to release reserved slot")
	}
}

// syncProfile recounts the influencer's participations and writes the
// absolute values. Best effort: a failure leaves the counters stale until
// the next sync, never wrong by drift.
func (l *Ledger) syncProfile(ctx context.Context, influencerID, influencerName string) {
	joined, err := l.parts.CountByInfluencer(ctx, influencerID, "")
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Join: profile sync skipped")
		return
	}
	completed, err := l.parts.CountByInfluencer(ctx, influencerID, models.StateCompleted)
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Join: profile sync skipped")
		return
	}
	if err := l.profiles.SyncEngagement(ctx, influencerID, influencerName, joined, completed, completed, l.now()); err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Join: profile sync failed")
	}
}

func (l *Ledger) Participation(ctx context.Context, offerID, influencerID string) (*models.Participation, error) {
	return l.parts.Get(ctx, offerID, influencerID)
}

func (l *Ledger) ListForInfluencer(ctx context.Context, influencerID string) ([]models.Participation, error) {
	return l.parts.ListByInfluencer(ctx, influencerID)
}
