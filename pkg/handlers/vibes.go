package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/notify"
	"github.com/treylee/vibein-service/pkg/store"
)

// DirectInquiryOfferID marks a vibe that is not tied to a specific offer.
const DirectInquiryOfferID = "direct-inquiry"

type VibeHandler struct {
	vibes    store.VibeStore
	notifier notify.Notifier
}

func NewVibeHandler(vibes store.VibeStore, notifier notify.Notifier) *VibeHandler {
	return &VibeHandler{vibes: vibes, notifier: notifier}
}

func (h *VibeHandler) Send(c *gin.Context) {
	var req models.SendVibeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("SendVibe: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	offerID := req.OfferID
	if offerID == "" {
		offerID = DirectInquiryOfferID
	}

	msg := &models.VibeMessage{
		ID:              uuid.NewString(),
		InfluencerID:    req.InfluencerID,
		InfluencerName:  req.InfluencerName,
		InfluencerEmail: req.InfluencerEmail,
		BusinessID:      req.BusinessID,
		BusinessName:    req.BusinessName,
		OfferID:         offerID,
		Message:         req.Message,
		Status:          models.VibePending,
		SentAt:          time.Now(),
	}
	if err := h.vibes.Insert(c.Request.Context(), msg); err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id":   req.BusinessID,
			"influencer_id": req.InfluencerID,
		}).WithError(err).Error("SendVibe: Failed to store message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send vibe"})
		return
	}

	go h.notifier.VibeSent(context.Background(), msg)
	c.JSON(http.StatusCreated, msg)
}

func (h *VibeHandler) ListForBusiness(c *gin.Context) {
	businessID := c.Param("businessId")
	list, err := h.vibes.ListByBusiness(c.Request.Context(), businessID)
	if err != nil {
		logrus.WithField("business_id", businessID).WithError(err).Error("ListVibes: Failed to list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vibes"})
		return
	}
	if list == nil {
		list = make([]models.VibeMessage, 0)
	}
	c.JSON(http.StatusOK, gin.H{"vibes": list})
}

func (h *VibeHandler) ListForInfluencer(c *gin.Context) {
	influencerID := c.Param("influencerId")
	list, err := h.vibes.ListByInfluencer(c.Request.Context(), influencerID)
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Error("ListVibes: Failed to list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vibes"})
		return
	}
	if list == nil {
		list = make([]models.VibeMessage, 0)
	}
	c.JSON(http.StatusOK, gin.H{"vibes": list})
}

func (h *VibeHandler) UpdateStatus(c *gin.Context) {
	vibeID := c.Param("id")

	var req models.UpdateVibeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("UpdateVibeStatus: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.Status.Resolved() {
		logrus.WithField("status", req.Status).Warn("UpdateVibeStatus: Invalid target status")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be responded, accepted, or declined"})
		return
	}

	err := h.vibes.UpdateStatus(c.Request.Context(), vibeID, req.Status, time.Now())
	if err != nil {
		log := logrus.WithField("vibe_id", vibeID)
		switch {
		case errors.Is(err, store.ErrVibeNotFound):
			log.Warn("UpdateVibeStatus: Vibe not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Vibe not found"})
		case errors.Is(err, store.ErrVibeResolved):
			log.Warn("UpdateVibeStatus: Already resolved")
			c.JSON(http.StatusConflict, gin.H{"error": "This vibe was already handled"})
		case errors.Is(err, store.ErrUnavailable):
			log.WithError(err).Error("UpdateVibeStatus: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			log.WithError(err).Error("UpdateVibeStatus: Failed to update")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vibe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vibe updated", "vibe_id": vibeID, "status": req.Status})
}
