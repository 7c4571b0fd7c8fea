// Package notify is the fire-and-forget side-channel for new offers and
// vibe messages. Delivery is not guaranteed and failures never surface to
// the request that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treylee/vibein-service/pkg/models"
)

type Notifier interface {
	OfferCreated(ctx context.Context, offer *models.Offer)
	VibeSent(ctx context.Context, msg *models.VibeMessage)
}

// LogNotifier just records the event. Used when no webhook is configured.
type LogNotifier struct{}

func (LogNotifier) OfferCreated(_ context.Context, offer *models.Offer) {
	logrus.WithFields(logrus.Fields{
		"offer_id":    offer.ID,
		"business_id": offer.BusinessID,
	}).Info("notify: offer created")
}

func (LogNotifier) VibeSent(_ context.Context, msg *models.VibeMessage) {
	logrus.WithFields(logrus.Fields{
		"vibe_id":     msg.ID,
		"business_id": msg.BusinessID,
	}).Info("notify: vibe sent")
}

// WebhookNotifier posts events to a configured endpoint. One shot, no
// retry; the backend owns actual email delivery.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *WebhookNotifier) OfferCreated(ctx context.Context, offer *models.Offer) {
	n.post(ctx, "offer_created", offer)
}

func (n *WebhookNotifier) VibeSent(ctx context.Context, msg *models.VibeMessage) {
	n.post(ctx, "vibe_sent", msg)
}

func (n *WebhookNotifier) post(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		logrus.WithField("event", event).WithError(err).Warn("notify: marshal failed")
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		logrus.WithField("event", event).WithError(err).Warn("notify: request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logrus.WithField("event", event).WithError(err).Warn("notify: delivery failed")
		return
	}
	resp.Body.Close()
}
