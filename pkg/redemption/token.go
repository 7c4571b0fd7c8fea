package redemption

import (
	"encoding/json"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/treylee/vibein-service/pkg/models"
)

var ErrMalformedToken = errors.New("malformed redemption payload")

// TokenPayload is the QR wire format: the influencer device renders it,
// the business scanner posts it back verbatim.
type TokenPayload struct {
	RedemptionID string `json:"redemptionId"`
	OfferID      string `json:"offerId"`
}

// EncodeToken re-encodes the participation's stored token. The token never
// changes after join, so repeated calls yield the same payload.
func EncodeToken(p *models.Participation) (string, error) {
	raw, err := json.Marshal(TokenPayload{
		RedemptionID: p.RedemptionToken,
		OfferID:      p.OfferID,
	})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return string(raw), nil
}

func DecodeToken(raw string) (TokenPayload, error) {
	var payload TokenPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return TokenPayload{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if payload.RedemptionID == "" || payload.OfferID == "" {
		return TokenPayload{}, fmt.Errorf("%w: missing required fields", ErrMalformedToken)
	}
	return payload, nil
}

// QRCode renders the encoded token as a PNG of the given edge size.
func QRCode(p *models.Participation, size int) ([]byte, error) {
	payload, err := EncodeToken(p)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}
