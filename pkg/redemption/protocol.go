// Package redemption implements the point-of-sale QR exchange: issuing the
// signed payload an influencer displays and the strictly single-use
// verification a business runs when scanning it.
package redemption

import (
	"context"
	"time"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

type Protocol struct {
	offers store.OfferStore
	parts  store.ParticipationStore
	now    func() time.Time
}

func New(offers store.OfferStore, parts store.ParticipationStore) *Protocol {
	return &Protocol{offers: offers, parts: parts, now: time.Now}
}

// Result is what the scanning business sees on a successful redemption.
type Result struct {
	InfluencerName   string `json:"influencer_name"`
	OfferDescription string `json:"offer_description"`
}

// VerifyAndRedeem decodes a scanned payload and transitions the matching
// participation joined -> redeemed. The transition is conditioned on the
// state still being joined at write time, so two near-simultaneous scans
// of the same code cannot both succeed; the loser gets ErrAlreadyRedeemed.
func (pr *Protocol) VerifyAndRedeem(ctx context.Context, rawPayload string) (*Result, error) {
	payload, err := DecodeToken(rawPayload)
	if err != nil {
		return nil, err
	}

	p, err := pr.parts.GetByToken(ctx, payload.RedemptionID, payload.OfferID)
	if err != nil {
		return nil, err
	}
	if p.State != models.StateJoined {
		return nil, store.ErrAlreadyRedeemed
	}

	// Load the display payload before the transition: once the state flips
	// a later failure would leave the scanner with a committed redemption
	// and no result to show.
	offer, err := pr.offers.Get(ctx, payload.OfferID)
	if err != nil {
		return nil, err
	}

	if err := pr.parts.MarkRedeemed(ctx, payload.RedemptionID, payload.OfferID, pr.now()); err != nil {
		return nil, err
	}

	return &Result{
		InfluencerName:   p.InfluencerName,
		OfferDescription: offer.Description,
	}, nil
}
