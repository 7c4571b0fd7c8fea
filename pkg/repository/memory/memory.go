// Package memory is a mutex-guarded in-memory implementation of the store
// interfaces. It backs unit and property tests and the STORE_BACKEND=memory
// development mode; it honors the same conditional-write semantics as the
// Mongo repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/store"
)

type Store struct {
	mu sync.Mutex

	offers         map[string]*models.Offer
	participations map[string]*models.Participation
	byPair         map[pairKey]string
	byToken        map[string]string
	vibes          map[string]*models.VibeMessage
	profiles       map[string]*models.InfluencerProfile
}

type pairKey struct {
	offerID      string
	influencerID string
}

func New() *Store {
	return &Store{
		offers:         make(map[string]*models.Offer),
		participations: make(map[string]*models.Participation),
		byPair:         make(map[pairKey]string),
		byToken:        make(map[string]string),
		vibes:          make(map[string]*models.VibeMessage),
		profiles:       make(map[string]*models.InfluencerProfile),
	}
}

// The four views share one mutex, so conditional writes observe a
// consistent snapshot just as single-document updates do in Mongo.

func (s *Store) Offers() store.OfferStore                 { return (*offerStore)(s) }
func (s *Store) Participations() store.ParticipationStore { return (*participationStore)(s) }
func (s *Store) Vibes() store.VibeStore                   { return (*vibeStore)(s) }
func (s *Store) Profiles() store.ProfileStore             { return (*profileStore)(s) }

type offerStore Store

func (s *offerStore) Create(_ context.Context, offer *models.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *offer
	s.offers[offer.ID] = &cp
	return nil
}

func (s *offerStore) Get(_ context.Context, id string) (*models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[id]
	if !ok {
		return nil, store.ErrOfferNotFound
	}
	cp := *offer
	return &cp, nil
}

func (s *offerStore) ListActive(_ context.Context, now time.Time) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Offer
	for _, offer := range s.offers {
		if offer.IsActive && !offer.Expired(now) {
			out = append(out, *offer)
		}
	}
	sortOffers(out)
	return out, nil
}

func (s *offerStore) ListByBusiness(_ context.Context, businessID string) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Offer
	for _, offer := range s.offers {
		if offer.BusinessID == businessID {
			out = append(out, *offer)
		}
	}
	sortOffers(out)
	return out, nil
}

func sortOffers(offers []models.Offer) {
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
}

func (s *offerStore) Deactivate(_ context.Context, offerID, businessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[offerID]
	if !ok {
		return store.ErrOfferNotFound
	}
	if offer.BusinessID != businessID {
		return store.ErrNotOwner
	}
	offer.IsActive = false
	return nil
}

func (s *offerStore) ReserveSlot(_ context.Context, offerID string, max int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[offerID]
	if !ok {
		return store.ErrOfferNotFound
	}
	if !offer.IsActive || offer.Expired(now) {
		return store.ErrOfferExpired
	}
	if offer.ParticipantCount >= max {
		return store.ErrCapacityReached
	}
	offer.ParticipantCount++
	return nil
}

func (s *offerStore) ReleaseSlot(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[offerID]
	if !ok {
		return store.ErrOfferNotFound
	}
	if offer.ParticipantCount > 0 {
		offer.ParticipantCount--
	}
	return nil
}

type participationStore Store

func (s *participationStore) Insert(_ context.Context, p *models.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{p.OfferID, p.InfluencerID}
	if _, exists := s.byPair[key]; exists {
		return store.ErrAlreadyJoined
	}
	cp := *p
	s.participations[p.ID] = &cp
	s.byPair[key] = p.ID
	s.byToken[p.RedemptionToken] = p.ID
	return nil
}

func (s *participationStore) Get(_ context.Context, offerID, influencerID string) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[pairKey{offerID, influencerID}]
	if !ok {
		return nil, store.ErrParticipationNotFound
	}
	cp := *s.participations[id]
	return &cp, nil
}

func (s *participationStore) GetByToken(_ context.Context, token, offerID string) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, store.ErrParticipationNotFound
	}
	p := s.participations[id]
	if p.OfferID != offerID {
		return nil, store.ErrParticipationNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *participationStore) ListByInfluencer(_ context.Context, influencerID string) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Participation
	for _, p := range s.participations {
		if p.InfluencerID == influencerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.After(out[j].JoinedAt)
	})
	return out, nil
}

func (s *participationStore) CountByInfluencer(_ context.Context, influencerID string, state models.ParticipationState) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.participations {
		if p.InfluencerID != influencerID {
			continue
		}
		if state == "" || p.State == state {
			n++
		}
	}
	return n, nil
}

func (s *participationStore) MarkRedeemed(_ context.Context, token, offerID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return store.ErrParticipationNotFound
	}
	p := s.participations[id]
	if p.OfferID != offerID {
		return store.ErrParticipationNotFound
	}
	if p.State != models.StateJoined {
		return store.ErrAlreadyRedeemed
	}
	p.State = models.StateRedeemed
	t := now
	p.RedeemedAt = &t
	return nil
}

func (s *participationStore) MarkCompleted(_ context.Context, offerID, influencerID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[pairKey{offerID, influencerID}]
	if !ok {
		return store.ErrParticipationNotFound
	}
	p := s.participations[id]
	if p.State == models.StateCompleted {
		return store.ErrAlreadyCompleted
	}
	p.State = models.StateCompleted
	t := now
	p.CompletedAt = &t
	return nil
}

type vibeStore Store

func (s *vibeStore) Insert(_ context.Context, msg *models.VibeMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.vibes[msg.ID] = &cp
	return nil
}

func (s *vibeStore) Get(_ context.Context, id string) (*models.VibeMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.vibes[id]
	if !ok {
		return nil, store.ErrVibeNotFound
	}
	cp := *msg
	return &cp, nil
}

func (s *vibeStore) ListByBusiness(_ context.Context, businessID string) ([]models.VibeMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.VibeMessage
	for _, msg := range s.vibes {
		if msg.BusinessID == businessID {
			out = append(out, *msg)
		}
	}
	sortVibes(out)
	return out, nil
}

func (s *vibeStore) ListByInfluencer(_ context.Context, influencerID string) ([]models.VibeMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.VibeMessage
	for _, msg := range s.vibes {
		if msg.InfluencerID == influencerID {
			out = append(out, *msg)
		}
	}
	sortVibes(out)
	return out, nil
}

func sortVibes(msgs []models.VibeMessage) {
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].SentAt.After(msgs[j].SentAt)
	})
}

func (s *vibeStore) UpdateStatus(_ context.Context, id string, status models.VibeStatus, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.vibes[id]
	if !ok {
		return store.ErrVibeNotFound
	}
	if msg.Status != models.VibePending {
		return store.ErrVibeResolved
	}
	msg.Status = status
	t := now
	msg.RespondedAt = &t
	return nil
}

type profileStore Store

func (s *profileStore) Get(_ context.Context, influencerID string) (*models.InfluencerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[influencerID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

func (s *profileStore) SyncEngagement(_ context.Context, influencerID, name string, joined, completed, reviews int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[influencerID]
	if !ok {
		profile = &models.InfluencerProfile{ID: influencerID}
		s.profiles[influencerID] = profile
	}
	profile.Name = name
	profile.JoinedOffers = joined
	profile.CompletedOffers = completed
	profile.TotalReviews = reviews
	profile.UpdatedAt = now
	return nil
}
