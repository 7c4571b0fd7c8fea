// Package review wraps the review-extraction service: given a review URL
// it confirms a matching posted review and returns its text and rating.
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExtraction means the service could not confirm a matching review.
// It is terminal for the attempt; the influencer can resubmit later.
var ErrExtraction = errors.New("could not verify review")

type ExtractRequest struct {
	URL              string `json:"url"`
	ExpectedBusiness string `json:"expectedBusiness"`
	ExpectedReviewer string `json:"expectedReviewer"`
	StrictValidation bool   `json:"strictValidation"`
	UseLlmFallback   bool   `json:"useLlmFallback"`
}

type Review struct {
	ReviewText   string `json:"reviewText"`
	Rating       int    `json:"rating"`
	BusinessName string `json:"businessName"`
}

type extractResponse struct {
	Success bool    `json:"success"`
	Data    *Review `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Extract posts the review URL for verification. Network errors and 5xx
// responses are retried with exponential backoff; a negative verdict from
// the service is permanent for this attempt.
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (*Review, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}

	var result *Review
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("extraction request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("extraction service returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%w: extraction service returned %d", ErrExtraction, resp.StatusCode))
		}

		var out extractResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode extraction response: %w", err))
		}
		if !out.Success || out.Data == nil {
			if out.Error == "" {
				out.Error = "no matching review found"
			}
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrExtraction, out.Error))
		}
		result = out.Data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}
