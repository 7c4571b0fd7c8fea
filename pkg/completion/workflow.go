// Package completion closes out an offer engagement: it validates the
// influencer's review proof and transitions the participation to completed.
// Prior redemption is not required; a business may skip the QR step.
package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/review"
	"github.com/treylee/vibein-service/pkg/store"
)

// Extractor confirms a posted review behind a review-platform URL.
type Extractor interface {
	Extract(ctx context.Context, req review.ExtractRequest) (*review.Review, error)
}

type Workflow struct {
	offers    store.OfferStore
	parts     store.ParticipationStore
	profiles  store.ProfileStore
	extractor Extractor
	now       func() time.Time
}

func New(offers store.OfferStore, parts store.ParticipationStore, profiles store.ProfileStore, extractor Extractor) *Workflow {
	return &Workflow{
		offers:    offers,
		parts:     parts,
		profiles:  profiles,
		extractor: extractor,
		now:       time.Now,
	}
}

type Result struct {
	Participation *models.Participation `json:"participation"`
	Review        *review.Review        `json:"review"`
}

// Submit validates the proof, transitions the participation to completed,
// and refreshes the influencer's aggregate counters. The counters are
// recounted from the participations collection rather than incremented, so
// a retry after a partial failure cannot double-count.
func (w *Workflow) Submit(ctx context.Context, offerID, influencerID, reviewURL string) (*Result, error) {
	p, err := w.parts.Get(ctx, offerID, influencerID)
	if err != nil {
		return nil, err
	}
	if p.State == models.StateCompleted {
		return nil, store.ErrAlreadyCompleted
	}

	offer, err := w.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	proof, err := w.extractor.Extract(ctx, review.ExtractRequest{
		URL:              reviewURL,
		ExpectedBusiness: offer.BusinessName,
		ExpectedReviewer: p.InfluencerName,
		StrictValidation: true,
		UseLlmFallback:   true,
	})
	if err != nil {
		return nil, err
	}
	if err := validateProof(proof); err != nil {
		return nil, err
	}

	if err := w.parts.MarkCompleted(ctx, offerID, influencerID, w.now()); err != nil {
		return nil, err
	}

	w.syncProfile(ctx, influencerID, p.InfluencerName)

	completed, err := w.parts.Get(ctx, offerID, influencerID)
	if err != nil {
		return nil, err
	}
	return &Result{Participation: completed, Review: proof}, nil
}

func validateProof(proof *review.Review) error {
	if proof.ReviewText == "" {
		return fmt.Errorf("%w: review text is empty", review.ErrExtraction)
	}
	if proof.Rating < 1 || proof.Rating > 5 {
		return fmt.Errorf("%w: rating %d out of range", review.ErrExtraction, proof.Rating)
	}
	return nil
}

func (w *Workflow) syncProfile(ctx context.Context, influencerID, influencerName string) {
	joined, err := w.parts.CountByInfluencer(ctx, influencerID, "")
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Submit: profile sync skipped")
		return
	}
	completed, err := w.parts.CountByInfluencer(ctx, influencerID, models.StateCompleted)
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Submit: profile sync skipped")
		return
	}
	if err := w.profiles.SyncEngagement(ctx, influencerID, influencerName, joined, completed, completed, w.now()); err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Warn("Submit: profile sync failed")
	}
}
