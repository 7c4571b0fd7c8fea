package offers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/repository/memory"
	"github.com/treylee/vibein-service/pkg/store"
)

func validRequest() models.CreateOfferRequest {
	return models.CreateOfferRequest{
		BusinessID:      "biz-1",
		BusinessName:    "Taco Palace",
		BusinessAddress: "1 Main St",
		Title:           "Free appetizer",
		Description:     "Free appetizer for a review",
		Platforms:       []models.Platform{models.PlatformGoogle, models.PlatformSocialMedia},
		ValidUntil:      time.Now().Add(48 * time.Hour),
		MaxParticipants: 10,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active offer with an empty count", func(t *testing.T) {
		svc := NewService(memory.New().Offers())

		offer, err := svc.Create(ctx, validRequest())
		require.NoError(t, err)
		require.NotEmpty(t, offer.ID)
		require.True(t, offer.IsActive)
		require.Equal(t, 0, offer.ParticipantCount)
		require.Equal(t, 10, offer.MaxParticipants)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewService(memory.New().Offers())

		cases := map[string]func(*models.CreateOfferRequest){
			"no platforms":      func(r *models.CreateOfferRequest) { r.Platforms = nil },
			"unknown platform":  func(r *models.CreateOfferRequest) { r.Platforms = []models.Platform{"myspace"} },
			"empty description": func(r *models.CreateOfferRequest) { r.Description = "" },
			"zero participants": func(r *models.CreateOfferRequest) { r.MaxParticipants = 0 },
			"past valid_until":  func(r *models.CreateOfferRequest) { r.ValidUntil = time.Now().Add(-time.Hour) },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				req := validRequest()
				mutate(&req)
				_, err := svc.Create(ctx, req)
				require.ErrorIs(t, err, ErrInvalidOffer)
			})
		}
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New().Offers())

	live, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	expiring := validRequest()
	expiring.ValidUntil = time.Now().Add(50 * time.Millisecond)
	expired, err := svc.Create(ctx, expiring)
	require.NoError(t, err)

	deactivated, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, deactivated.ID, "biz-1"))

	time.Sleep(100 * time.Millisecond)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, live.ID, list[0].ID)
	require.NotEqual(t, expired.ID, list[0].ID)
}

func TestListForBusiness(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New().Offers())

	mine, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.BusinessID = "biz-2"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	list, err := svc.ListForBusiness(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, mine.ID, list[0].ID)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can deactivate, repeatably", func(t *testing.T) {
		svc := NewService(memory.New().Offers())
		offer, err := svc.Create(ctx, validRequest())
		require.NoError(t, err)

		require.NoError(t, svc.Deactivate(ctx, offer.ID, "biz-1"))
		require.NoError(t, svc.Deactivate(ctx, offer.ID, "biz-1"))

		stored, err := svc.Get(ctx, offer.ID)
		require.NoError(t, err)
		require.False(t, stored.IsActive)
	})

	t.Run("foreign business rejected", func(t *testing.T) {
		svc := NewService(memory.New().Offers())
		offer, err := svc.Create(ctx, validRequest())
		require.NoError(t, err)

		err = svc.Deactivate(ctx, offer.ID, "biz-2")
		require.ErrorIs(t, err, store.ErrNotOwner)

		stored, err := svc.Get(ctx, offer.ID)
		require.NoError(t, err)
		require.True(t, stored.IsActive)
	})

	t.Run("missing offer", func(t *testing.T) {
		svc := NewService(memory.New().Offers())
		err := svc.Deactivate(ctx, "missing", "biz-1")
		require.ErrorIs(t, err, store.ErrOfferNotFound)
	})
}
