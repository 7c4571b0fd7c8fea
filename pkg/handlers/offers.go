package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/notify"
	"github.com/treylee/vibein-service/pkg/offers"
	"github.com/treylee/vibein-service/pkg/store"
)

type OfferHandler struct {
	offers   *offers.Service
	notifier notify.Notifier
}

func NewOfferHandler(svc *offers.Service, notifier notify.Notifier) *OfferHandler {
	return &OfferHandler{offers: svc, notifier: notifier}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req models.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("CreateOffer: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), req)
	if err != nil {
		log := logrus.WithField("business_id", req.BusinessID)
		switch {
		case errors.Is(err, offers.ErrInvalidOffer):
			log.WithError(err).Warn("CreateOffer: Validation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrUnavailable):
			log.WithError(err).Error("CreateOffer: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			log.WithError(err).Error("CreateOffer: Failed to create offer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		}
		return
	}

	go h.notifier.OfferCreated(context.Background(), offer)
	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) ListActive(c *gin.Context) {
	list, err := h.offers.ListActive(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("ListActiveOffers: Failed to list offers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list offers"})
		return
	}
	if list == nil {
		list = make([]models.Offer, 0)
	}
	c.JSON(http.StatusOK, gin.H{"offers": list})
}

func (h *OfferHandler) ListForBusiness(c *gin.Context) {
	businessID := c.Param("businessId")
	list, err := h.offers.ListForBusiness(c.Request.Context(), businessID)
	if err != nil {
		logrus.WithField("business_id", businessID).WithError(err).Error("ListBusinessOffers: Failed to list offers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list offers"})
		return
	}
	if list == nil {
		list = make([]models.Offer, 0)
	}
	c.JSON(http.StatusOK, gin.H{"offers": list})
}

func (h *OfferHandler) Deactivate(c *gin.Context) {
	offerID := c.Param("id")

	var req models.DeactivateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("DeactivateOffer: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	err := h.offers.Deactivate(c.Request.Context(), offerID, req.BusinessID)
	if err != nil {
		log := logrus.WithFields(logrus.Fields{
			"offer_id":    offerID,
			"business_id": req.BusinessID,
		})
		switch {
		case errors.Is(err, store.ErrOfferNotFound):
			log.Warn("DeactivateOffer: Offer not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		case errors.Is(err, store.ErrNotOwner):
			log.Warn("DeactivateOffer: Not the offer owner")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this offer"})
		case errors.Is(err, store.ErrUnavailable):
			log.WithError(err).Error("DeactivateOffer: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			log.WithError(err).Error("DeactivateOffer: Failed to deactivate offer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate offer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deactivated", "offer_id": offerID})
}
