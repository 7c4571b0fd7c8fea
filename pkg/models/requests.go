package models

import (
	"time"
)

type CreateOfferRequest struct {
	BusinessID      string     `json:"business_id" binding:"required"`
	BusinessName    string     `json:"business_name" binding:"required"`
	BusinessAddress string     `json:"business_address"`
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description" binding:"required"`
	Platforms       []Platform `json:"platforms" binding:"required"`
	ValidUntil      time.Time  `json:"valid_until" binding:"required"`
	MaxParticipants int        `json:"max_participants" binding:"required,min=1"`
}

type DeactivateOfferRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
}

type JoinOfferRequest struct {
	InfluencerID   string   `json:"influencer_id" binding:"required"`
	InfluencerName string   `json:"influencer_name" binding:"required"`
	Platform       Platform `json:"platform" binding:"required"`
}

// VerifyRedemptionRequest carries the raw text a business-side scanner
// extracted from an influencer's QR code.
type VerifyRedemptionRequest struct {
	Payload string `json:"payload" binding:"required"`
}

type CompleteOfferRequest struct {
	InfluencerID string `json:"influencer_id" binding:"required"`
	ReviewURL    string `json:"review_url" binding:"required"`
}

type SendVibeRequest struct {
	InfluencerID    string `json:"influencer_id" binding:"required"`
	InfluencerName  string `json:"influencer_name" binding:"required"`
	InfluencerEmail string `json:"influencer_email"`
	BusinessID      string `json:"business_id" binding:"required"`
	BusinessName    string `json:"business_name" binding:"required"`
	OfferID         string `json:"offer_id"`
	Message         string `json:"message" binding:"required"`
}

type UpdateVibeStatusRequest struct {
	Status VibeStatus `json:"status" binding:"required"`
}
