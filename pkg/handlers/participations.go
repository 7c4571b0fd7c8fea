package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/ledger"
	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/redemption"
	"github.com/treylee/vibein-service/pkg/store"
)

type ParticipationHandler struct {
	ledger *ledger.Ledger
}

func NewParticipationHandler(l *ledger.Ledger) *ParticipationHandler {
	return &ParticipationHandler{ledger: l}
}

func (h *ParticipationHandler) Join(c *gin.Context) {
	offerID := c.Param("id")

	var req models.JoinOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("JoinOffer: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	p, err := h.ledger.Join(c.Request.Context(), offerID, req.InfluencerID, req.InfluencerName, req.Platform)
	if err != nil {
		log := logrus.WithFields(logrus.Fields{
			"offer_id":      offerID,
			"influencer_id": req.InfluencerID,
		})
		switch {
		case errors.Is(err, store.ErrOfferNotFound):
			log.Warn("JoinOffer: Offer not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		case errors.Is(err, store.ErrOfferExpired):
			log.Warn("JoinOffer: Offer expired or deactivated")
			c.JSON(http.StatusGone, gin.H{"error": "This offer is no longer available"})
		case errors.Is(err, ledger.ErrPlatformNotAllowed):
			log.WithField("platform", req.Platform).Warn("JoinOffer: Platform not allowed")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This offer does not accept that platform"})
		case errors.Is(err, store.ErrAlreadyJoined):
			log.Warn("JoinOffer: Already joined")
			c.JSON(http.StatusConflict, gin.H{"error": "You already joined this offer"})
		case errors.Is(err, store.ErrCapacityReached):
			log.Warn("JoinOffer: No spots left")
			c.JSON(http.StatusConflict, gin.H{"error": "No spots left"})
		case errors.Is(err, store.ErrUnavailable):
			log.WithError(err).Error("JoinOffer: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			log.WithError(err).Error("JoinOffer: Failed to join offer")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join offer"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ParticipationHandler) Get(c *gin.Context) {
	p, ok := h.lookup(c, "GetParticipation")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// Token returns the QR payload as JSON text. The stored token is
// re-encoded, never regenerated, so re-requests are idempotent.
func (h *ParticipationHandler) Token(c *gin.Context) {
	p, ok := h.lookup(c, "IssueToken")
	if !ok {
		return
	}

	payload, err := redemption.EncodeToken(p)
	if err != nil {
		logrus.WithField("participation_id", p.ID).WithError(err).Error("IssueToken: Failed to encode token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payload": payload})
}

func (h *ParticipationHandler) QR(c *gin.Context) {
	p, ok := h.lookup(c, "QRCode")
	if !ok {
		return
	}

	size := 256
	if raw := c.Query("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	png, err := redemption.QRCode(p, size)
	if err != nil {
		logrus.WithField("participation_id", p.ID).WithError(err).Error("QRCode: Failed to render code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *ParticipationHandler) ListForInfluencer(c *gin.Context) {
	influencerID := c.Param("influencerId")
	list, err := h.ledger.ListForInfluencer(c.Request.Context(), influencerID)
	if err != nil {
		logrus.WithField("influencer_id", influencerID).WithError(err).Error("ListParticipations: Failed to list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list participations"})
		return
	}
	if list == nil {
		list = make([]models.Participation, 0)
	}
	c.JSON(http.StatusOK, gin.H{"participations": list})
}

func (h *ParticipationHandler) lookup(c *gin.Context, op string) (*models.Participation, bool) {
	offerID := c.Param("id")
	influencerID := c.Param("influencerId")

	p, err := h.ledger.Participation(c.Request.Context(), offerID, influencerID)
	if err != nil {
		log := logrus.WithFields(logrus.Fields{
			"offer_id":      offerID,
			"influencer_id": influencerID,
		})
		if errors.Is(err, store.ErrParticipationNotFound) {
			log.Warn(op + ": Participation not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Participation not found"})
		} else {
			log.WithError(err).Error(op + ": Failed to load participation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load participation"})
		}
		return nil, false
	}
	return p, true
}
