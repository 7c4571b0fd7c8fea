package models

import (
	"time"
)

// Platform is a review platform an influencer can post on.
type Platform string

const (
	PlatformGoogle      Platform = "google"
	PlatformAppleMaps   Platform = "apple_maps"
	PlatformSocialMedia Platform = "social_media"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformGoogle, PlatformAppleMaps, PlatformSocialMedia:
		return true
	}
	return false
}

// ParticipationState tracks an influencer's progress through an offer:
// joined -> redeemed -> completed. Completion is also reachable straight
// from joined when the business skips the in-person QR step.
type ParticipationState string

const (
	StateJoined    ParticipationState = "joined"
	StateRedeemed  ParticipationState = "redeemed"
	StateCompleted ParticipationState = "completed"
)

// VibeStatus is the lifecycle of a direct message. Only pending messages
// may move to a resolved status.
type VibeStatus string

const (
	VibePending   VibeStatus = "pending"
	VibeResponded VibeStatus = "responded"
	VibeAccepted  VibeStatus = "accepted"
	VibeDeclined  VibeStatus = "declined"
)

func (s VibeStatus) Resolved() bool {
	switch s {
	case VibeResponded, VibeAccepted, VibeDeclined:
		return true
	}
	return false
}

type Offer struct {
	ID               string     `bson:"_id" json:"id"`
	BusinessID       string     `bson:"business_id" json:"business_id"`
	BusinessName     string     `bson:"business_name" json:"business_name"`
	BusinessAddress  string     `bson:"business_address" json:"business_address"`
	Title            string     `bson:"title" json:"title"`
	Description      string     `bson:"description" json:"description"`
	Platforms        []Platform `bson:"platforms" json:"platforms"`
	ValidUntil       time.Time  `bson:"valid_until" json:"valid_until"`
	IsActive         bool       `bson:"is_active" json:"is_active"`
	MaxParticipants  int        `bson:"max_participants" json:"max_participants"`
	ParticipantCount int        `bson:"participant_count" json:"participant_count"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// Expired reports whether the offer's validity window has passed. This is
// independent of IsActive, which the business controls directly.
func (o *Offer) Expired(now time.Time) bool {
	return now.After(o.ValidUntil)
}

func (o *Offer) AllowsPlatform(p Platform) bool {
	for _, allowed := range o.Platforms {
		if allowed == p {
			return true
		}
	}
	return false
}

type Participation struct {
	ID             string             `bson:"_id" json:"id"`
	OfferID        string             `bson:"offer_id" json:"offer_id"`
	InfluencerID   string             `bson:"influencer_id" json:"influencer_id"`
	InfluencerName string             `bson:"influencer_name" json:"influencer_name"`
	Platform       Platform           `bson:"platform" json:"platform"`
	State          ParticipationState `bson:"state" json:"state"`
	// RedemptionToken is generated once at join time and never rotated;
	// re-requesting a QR code re-encodes the same token.
	RedemptionToken string     `bson:"redemption_token" json:"-"`
	JoinedAt        time.Time  `bson:"joined_at" json:"joined_at"`
	RedeemedAt      *time.Time `bson:"redeemed_at,omitempty" json:"redeemed_at,omitempty"`
	CompletedAt     *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// VibeMessage is a direct message between a business and an influencer.
// OfferID holds a synthetic "direct-inquiry" id when the message is not
// tied to a specific offer.
type VibeMessage struct {
	ID              string     `bson:"_id" json:"id"`
	InfluencerID    string     `bson:"influencer_id" json:"influencer_id"`
	InfluencerName  string     `bson:"influencer_name" json:"influencer_name"`
	InfluencerEmail string     `bson:"influencer_email" json:"influencer_email"`
	BusinessID      string     `bson:"business_id" json:"business_id"`
	BusinessName    string     `bson:"business_name" json:"business_name"`
	OfferID         string     `bson:"offer_id" json:"offer_id"`
	Message         string     `bson:"message" json:"message"`
	Status          VibeStatus `bson:"status" json:"status"`
	SentAt          time.Time  `bson:"sent_at" json:"sent_at"`
	RespondedAt     *time.Time `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

// InfluencerProfile carries aggregate engagement counters. The counters are
// derived from the participations collection and written as absolute
// values, so a retried update can never double-count.
type InfluencerProfile struct {
	ID              string    `bson:"_id" json:"influencer_id"`
	Name            string    `bson:"name" json:"name"`
	JoinedOffers    int       `bson:"joined_offers" json:"joined_offers"`
	CompletedOffers int       `bson:"completed_offers" json:"completed_offers"`
	TotalReviews    int       `bson:"total_reviews" json:"total_reviews"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
