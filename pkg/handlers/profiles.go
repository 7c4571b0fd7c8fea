package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/store"
)

type ProfileHandler struct {
	profiles store.ProfileStore
}

func NewProfileHandler(profiles store.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	influencerID := c.Param("influencerId")

	profile, err := h.profiles.Get(c.Request.Context(), influencerID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			logrus.WithField("influencer_id", influencerID).Warn("GetProfile: Profile not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logrus.WithField("influencer_id", influencerID).WithError(err).Error("GetProfile: Failed to get profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
