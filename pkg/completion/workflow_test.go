package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/repository/memory"
	"github.com/treylee/vibein-service/pkg/review"
	"github.com/treylee/vibein-service/pkg/store"
)

type fakeExtractor struct {
	review *review.Review
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _ review.ExtractRequest) (*review.Review, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.review, nil
}

func seed(t *testing.T, mem *memory.Store, state models.ParticipationState) *models.Participation {
	t.Helper()
	ctx := context.Background()

	offer := &models.Offer{
		ID:              "offer-1",
		BusinessID:      "biz-1",
		BusinessName:    "Taco Palace",
		Description:     "Free appetizer for a review",
		Platforms:       []models.Platform{models.PlatformGoogle},
		ValidUntil:      time.Now().Add(24 * time.Hour),
		IsActive:        true,
		MaxParticipants: 5,
	}
	require.NoError(t, mem.Offers().Create(ctx, offer))

	p := &models.Participation{
		ID:              "part-1",
		OfferID:         offer.ID,
		InfluencerID:    "inf-1",
		InfluencerName:  "Ava",
		Platform:        models.PlatformGoogle,
		State:           models.StateJoined,
		RedemptionToken: "token-abc",
		JoinedAt:        time.Now(),
	}
	require.NoError(t, mem.Participations().Insert(ctx, p))

	if state == models.StateRedeemed {
		require.NoError(t, mem.Participations().MarkRedeemed(ctx, p.RedemptionToken, offer.ID, time.Now()))
	}
	if state == models.StateCompleted {
		require.NoError(t, mem.Participations().MarkCompleted(ctx, offer.ID, p.InfluencerID, time.Now()))
	}
	return p
}

func goodReview() *review.Review {
	return &review.Review{
		ReviewText:   "Great tacos, lovely staff",
		Rating:       5,
		BusinessName: "Taco Palace",
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("joined participation completes and counters sync", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateJoined)
		extractor := &fakeExtractor{review: goodReview()}
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), extractor)

		result, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.NoError(t, err)
		require.Equal(t, models.StateCompleted, result.Participation.State)
		require.NotNil(t, result.Participation.CompletedAt)
		require.Equal(t, goodReview().ReviewText, result.Review.ReviewText)

		profile, err := mem.Profiles().Get(ctx, "inf-1")
		require.NoError(t, err)
		require.Equal(t, 1, profile.CompletedOffers)
		require.Equal(t, 1, profile.TotalReviews)
	})

	t.Run("redeemed participation completes", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateRedeemed)
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), &fakeExtractor{review: goodReview()})

		result, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.NoError(t, err)
		require.Equal(t, models.StateCompleted, result.Participation.State)
	})

	t.Run("already completed rejected without re-counting", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateJoined)
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), &fakeExtractor{review: goodReview()})

		_, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.NoError(t, err)

		_, err = w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.ErrorIs(t, err, store.ErrAlreadyCompleted)

		profile, err := mem.Profiles().Get(ctx, "inf-1")
		require.NoError(t, err)
		require.Equal(t, 1, profile.CompletedOffers)
		require.Equal(t, 1, profile.TotalReviews)
	})

	t.Run("no participation", func(t *testing.T) {
		mem := memory.New()
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), &fakeExtractor{review: goodReview()})

		_, err := w.Submit(ctx, "offer-1", "inf-9", "https://maps.example.com/review/1")
		require.ErrorIs(t, err, store.ErrParticipationNotFound)
	})

	t.Run("empty review text rejected and state untouched", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateJoined)
		bad := &review.Review{ReviewText: "", Rating: 3, BusinessName: "Taco Palace"}
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), &fakeExtractor{review: bad})

		_, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.ErrorIs(t, err, review.ErrExtraction)

		p, err := mem.Participations().Get(ctx, "offer-1", "inf-1")
		require.NoError(t, err)
		require.Equal(t, models.StateJoined, p.State)

		_, err = mem.Profiles().Get(ctx, "inf-1")
		require.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("out-of-range rating rejected", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateJoined)
		bad := &review.Review{ReviewText: "meh", Rating: 0, BusinessName: "Taco Palace"}
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), &fakeExtractor{review: bad})

		_, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.ErrorIs(t, err, review.ErrExtraction)
	})

	t.Run("extractor failure propagates before any mutation", func(t *testing.T) {
		mem := memory.New()
		seed(t, mem, models.StateJoined)
		extractor := &fakeExtractor{err: review.ErrExtraction}
		w := New(mem.Offers(), mem.Participations(), mem.Profiles(), extractor)

		_, err := w.Submit(ctx, "offer-1", "inf-1", "https://maps.example.com/review/1")
		require.ErrorIs(t, err, review.ErrExtraction)
		require.Equal(t, 1, extractor.calls)

		p, err := mem.Participations().Get(ctx, "offer-1", "inf-1")
		require.NoError(t, err)
		require.Equal(t, models.StateJoined, p.State)
	})
}
