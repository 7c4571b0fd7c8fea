package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/completion"
	"github.com/treylee/vibein-service/pkg/models"
	"github.com/treylee/vibein-service/pkg/review"
	"github.com/treylee/vibein-service/pkg/store"
)

type CompletionHandler struct {
	workflow *completion.Workflow
}

func NewCompletionHandler(w *completion.Workflow) *CompletionHandler {
	return &CompletionHandler{workflow: w}
}

func (h *CompletionHandler) Submit(c *gin.Context) {
	offerID := c.Param("id")

	var req models.CompleteOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithField("error", err).Warn("SubmitCompletion: Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.workflow.Submit(c.Request.Context(), offerID, req.InfluencerID, req.ReviewURL)
	if err != nil {
		log := logrus.WithFields(logrus.Fields{
			"offer_id":      offerID,
			"influencer_id": req.InfluencerID,
		})
		switch {
		case errors.Is(err, store.ErrParticipationNotFound):
			log.Warn("SubmitCompletion: Participation not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "You have not joined this offer"})
		case errors.Is(err, store.ErrOfferNotFound):
			log.Warn("SubmitCompletion: Offer not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		case errors.Is(err, store.ErrAlreadyCompleted):
			log.Warn("SubmitCompletion: Already completed")
			c.JSON(http.StatusConflict, gin.H{"error": "Already completed"})
		case errors.Is(err, review.ErrExtraction):
			log.WithError(err).Warn("SubmitCompletion: Review could not be verified")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "We could not verify that review yet, please try again later"})
		case errors.Is(err, store.ErrUnavailable):
			log.WithError(err).Error("SubmitCompletion: Store unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again"})
		default:
			log.WithError(err).Error("SubmitCompletion: Failed to complete")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit completion"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
