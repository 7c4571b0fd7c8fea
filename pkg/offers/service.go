// Package offers implements the offer catalog: creation, listing, and
// business-controlled deactivation. Participant counts live on the offer
// document but are mutated only through the ledger's slot reservation.
package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

// ErrInvalidOffer wraps a description of the offending field.
var ErrInvalidOffer = errors.New("invalid offer")

type Service struct {
	store store.OfferStore
	now   func() time.Time
}

func NewService(s store.OfferStore) *Service {
	return &Service{store: s, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req models.CreateOfferRequest) (*models.Offer, error) {
	if err := validate(req, s.now()); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		ID:               uuid.NewString(),
		BusinessID:       req.BusinessID,
		BusinessName:     req.BusinessName,
		BusinessAddress:  req.BusinessAddress,
		Title:            req.Title,
		Description:      req.Description,
		Platforms:        req.Platforms,
		ValidUntil:       req.ValidUntil,
		IsActive:         true,
		MaxParticipants:  req.MaxParticipants,
		ParticipantCount: 0,
		CreatedAt:        s.now(),
	}
	if err := s.store.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func validate(req models.CreateOfferRequest, now time.Time) error {
	if len(req.Platforms) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrInvalidOffer)
	}
	for _, p := range req.Platforms {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown platform %q", ErrInvalidOffer, p)
		}
	}
	if req.Description == "" {
		return fmt.Errorf("%w: description must not be empty", ErrInvalidOffer)
	}
	if req.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", ErrInvalidOffer)
	}
	if !req.ValidUntil.After(now) {
		return fmt.Errorf("%w: valid_until must be in the future", ErrInvalidOffer)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Offer, error) {
	return s.store.Get(ctx, id)
}

// ListActive returns offers an influencer can still join: active and
// unexpired. Display ordering is a client concern.
func (s *Service) ListActive(ctx context.Context) ([]models.Offer, error) {
	return s.store.ListActive(ctx, s.now())
}

func (s *Service) ListForBusiness(ctx context.Context, businessID string) ([]models.Offer, error) {
	return s.store.ListByBusiness(ctx, businessID)
}

// Deactivate turns an offer off early. Only the owning business may do so;
// repeating the call is a no-op success.
func (s *Service) Deactivate(ctx context.Context, offerID, businessID string) error {
	return s.store.Deactivate(ctx, offerID, businessID)
}
