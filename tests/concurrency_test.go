// Black-box concurrency suite against a running server. Set VIBEIN_API_URL
// (e.g. http://localhost:8080/api) to enable; the suite seeds its own
// offers, so it is safe to run repeatedly against a dev instance.
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"
)

func baseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("VIBEIN_API_URL")
	if url == "" {
		t.Skip("VIBEIN_API_URL not set; skipping live-server suite")
	}
	return url
}

func postJSON(t *testing.T, url string, body map[string]any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func seedOffer(t *testing.T, api string, maxParticipants int) string {
	t.Helper()
	resp := postJSON(t, api+"/offers", map[string]any{
		"business_id":      fmt.Sprintf("biz_%d", time.Now().UnixNano()),
		"business_name":    "Flash Sale Tacos",
		"title":            "Free appetizer",
		"description":      "Free appetizer for a review",
		"platforms":        []string{"google"},
		"valid_until":      time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"max_participants": maxParticipants,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create offer: status %d", resp.StatusCode)
	}

	var offer struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&offer)
	return offer.ID
}

func TestConcurrency(t *testing.T) {
	t.Run("FlashSaleJoins", func(t *testing.T) {
		api := baseURL(t)
		spots := 5
		requests := 50
		offerID := seedOffer(t, api, spots)

		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		wg.Add(requests)
		for i := 0; i < requests; i++ {
			go func(n int) {
				defer wg.Done()
				resp := postJSON(t, api+"/offers/"+offerID+"/join", map[string]any{
					"influencer_id":   fmt.Sprintf("inf_%d", n),
					"influencer_name": fmt.Sprintf("Influencer %d", n),
					"platform":        "google",
				})
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		if successes != spots {
			t.Errorf("Expected %d successful joins, got %d", spots, successes)
		}
	})

	t.Run("DoubleJoin", func(t *testing.T) {
		api := baseURL(t)
		requests := 15
		offerID := seedOffer(t, api, 10)

		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0

		wg.Add(requests)
		for i := 0; i < requests; i++ {
			go func() {
				defer wg.Done()
				resp := postJSON(t, api+"/offers/"+offerID+"/join", map[string]any{
					"influencer_id":   "greedy_influencer",
					"influencer_name": "Greedy",
					"platform":        "google",
				})
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if successes != 1 {
			t.Errorf("Expected exactly 1 successful join, got %d", successes)
		}
	})

	t.Run("DoubleScan", func(t *testing.T) {
		api := baseURL(t)
		offerID := seedOffer(t, api, 5)

		resp := postJSON(t, api+"/offers/"+offerID+"/join", map[string]any{
			"influencer_id":   "scanner_target",
			"influencer_name": "Scanner Target",
			"platform":        "google",
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to join: status %d", resp.StatusCode)
		}

		tokenResp, err := http.Get(api + "/offers/" + offerID + "/participations/scanner_target/token")
		if err != nil || tokenResp.StatusCode != http.StatusOK {
			t.Fatalf("Failed to fetch token: %v", err)
		}
		var token struct {
			Payload string `json:"payload"`
		}
		json.NewDecoder(tokenResp.Body).Decode(&token)
		tokenResp.Body.Close()

		scans := 10
		var wg sync.WaitGroup
		var mu sync.Mutex
		redeemed := 0

		wg.Add(scans)
		for i := 0; i < scans; i++ {
			go func() {
				defer wg.Done()
				resp := postJSON(t, api+"/redemptions/verify", map[string]any{
					"payload": token.Payload,
				})
				defer resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					mu.Lock()
					redeemed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if redeemed != 1 {
			t.Errorf("Expected exactly 1 successful redemption, got %d", redeemed)
		}
	})
}
