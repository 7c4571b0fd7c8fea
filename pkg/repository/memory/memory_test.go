package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

func TestReserveSlot(t *testing.T) {
	ctx := context.Background()
	mem := New()

	offer := &models.Offer{
		ID:              "offer-1",
		BusinessID:      "biz-1",
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
		MaxParticipants: 2,
	}
	require.NoError(t, mem.Offers().Create(ctx, offer))

	require.NoError(t, mem.Offers().ReserveSlot(ctx, "offer-1", 2, time.Now()))
	require.NoError(t, mem.Offers().ReserveSlot(ctx, "offer-1", 2, time.Now()))
	require.ErrorIs(t, mem.Offers().ReserveSlot(ctx, "offer-1", 2, time.Now()), store.ErrCapacityReached)

	require.NoError(t, mem.Offers().ReleaseSlot(ctx, "offer-1"))
	require.NoError(t, mem.Offers().ReserveSlot(ctx, "offer-1", 2, time.Now()))

	stored, err := mem.Offers().Get(ctx, "offer-1")
	require.NoError(t, err)
	require.Equal(t, 2, stored.ParticipantCount)
}

func TestReleaseSlotFloor(t *testing.T) {
	ctx := context.Background()
	mem := New()

	offer := &models.Offer{
		ID:              "offer-1",
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
		MaxParticipants: 2,
	}
	require.NoError(t, mem.Offers().Create(ctx, offer))

	require.NoError(t, mem.Offers().ReleaseSlot(ctx, "offer-1"))
	stored, err := mem.Offers().Get(ctx, "offer-1")
	require.NoError(t, err)
	require.Equal(t, 0, stored.ParticipantCount)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	mem := New()

	offer := &models.Offer{
		ID:              "offer-1",
		ValidUntil:      time.Now().Add(time.Hour),
		IsActive:        true,
		MaxParticipants: 2,
	}
	require.NoError(t, mem.Offers().Create(ctx, offer))

	got, err := mem.Offers().Get(ctx, "offer-1")
	require.NoError(t, err)
	got.ParticipantCount = 99

	again, err := mem.Offers().Get(ctx, "offer-1")
	require.NoError(t, err)
	require.Equal(t, 0, again.ParticipantCount)
}

func TestMarkRedeemedStateGate(t *testing.T) {
	ctx := context.Background()
	mem := New()

	p := &models.Participation{
		ID:              "part-1",
		OfferID:         "offer-1",
		InfluencerID:    "inf-1",
		State:           models.StateJoined,
		RedemptionToken: "token-abc",
	}
	require.NoError(t, mem.Participations().Insert(ctx, p))

	require.NoError(t, mem.Participations().MarkRedeemed(ctx, "token-abc", "offer-1", time.Now()))
	require.ErrorIs(t, mem.Participations().MarkRedeemed(ctx, "token-abc", "offer-1", time.Now()), store.ErrAlreadyRedeemed)
	require.ErrorIs(t, mem.Participations().MarkRedeemed(ctx, "token-abc", "other", time.Now()), store.ErrParticipationNotFound)
	require.ErrorIs(t, mem.Participations().MarkRedeemed(ctx, "unknown", "offer-1", time.Now()), store.ErrParticipationNotFound)
}
