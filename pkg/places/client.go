// Package places wraps the text-search endpoint businesses use to
// self-identify during onboarding.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Place struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type searchResponse struct {
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		BusinessStatus   string `json:"business_status"`
	} `json:"results"`
	Status string `json:"status"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse places url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places service returned %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	if out.Status != "" && out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places service status %s", out.Status)
	}

	places := make([]Place, 0, len(out.Results))
	for _, r := range out.Results {
		places = append(places, Place{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Address:  r.FormattedAddress,
			Verified: r.BusinessStatus == "OPERATIONAL",
		})
	}
	return places, nil
}
