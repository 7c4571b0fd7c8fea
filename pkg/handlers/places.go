package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/places"
)

type PlacesHandler struct {
	client *places.Client
}

func NewPlacesHandler(client *places.Client) *PlacesHandler {
	return &PlacesHandler{client: client}
}

func (h *PlacesHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		logrus.Warn("SearchPlaces: Query is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	results, err := h.client.Search(c.Request.Context(), query)
	if err != nil {
		logrus.WithField("query", query).WithError(err).Error("SearchPlaces: Lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Place lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": results})
}
