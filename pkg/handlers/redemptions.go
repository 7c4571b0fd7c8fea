package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/redemption"
	"github.com/treylee/vibein-service/pkg/store"
)

type RedemptionHandler struct {
	protocol *redemption.Protocol
}

func NewRedemptionHandler(p *redemption.Protocol) *RedemptionHandler {
	return &RedemptionHandler{protocol: p}
}

func (h *RedemptionHandler) Verify(c *gin.Context) {
	var req models.VerifyRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("VerifyRedemption: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.protocol.VerifyAndRedeem(c.Request.Context(), req.Payload)
	if err != nil {
		switch {
		case errors.Is(err, redemption.ErrMalformedToken):
			logrus.WithError(err).Warn("VerifyRedemption: Malformed payload")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read this QR code"})
		case errors.Is(err, store.ErrParticipationNotFound):
			logrus.Warn("VerifyRedemption: Unknown token")
			c.JSON(http.StatusNotFound, gin.H{"error": "No matching participation"})
		case errors.Is(err, store.ErrAlreadyRedeemed):
			logrus.Warn("VerifyRedemption: Token already used")
			c.JSON(http.StatusConflict, gin.H{"error": "Already redeemed"})
		case errors.Is(err, store.ErrUnavailable):
			logrus.WithError(err).Error("VerifyRedemption: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			logrus.WithError(err).Error("VerifyRedemption: Failed to redeem")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
