package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the confirmed review", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req ExtractRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "Taco Palace", req.ExpectedBusiness)
			require.True(t, req.StrictValidation)

			json.NewEncoder(w).Encode(extractResponse{
				Success: true,
				Data: &Review{
					ReviewText:   "Great tacos",
					Rating:       5,
					BusinessName: "Taco Palace",
				},
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		result, err := client.Extract(ctx, ExtractRequest{
			URL:              "https://maps.example.com/review/1",
			ExpectedBusiness: "Taco Palace",
			ExpectedReviewer: "Ava",
			StrictValidation: true,
		})
		require.NoError(t, err)
		require.Equal(t, 5, result.Rating)
		require.Equal(t, "Great tacos", result.ReviewText)
	})

	t.Run("negative verdict is terminal", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			json.NewEncoder(w).Encode(extractResponse{
				Success: false,
				Error:   "no matching review found",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Extract(ctx, ExtractRequest{URL: "https://maps.example.com/review/1"})
		require.ErrorIs(t, err, ErrExtraction)
		require.Equal(t, int32(1), atomic.LoadInt32(&calls), "permanent failures must not retry")
	})

	t.Run("5xx is retried until success", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(extractResponse{
				Success: true,
				Data:    &Review{ReviewText: "ok", Rating: 4, BusinessName: "Taco Palace"},
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		result, err := client.Extract(ctx, ExtractRequest{URL: "https://maps.example.com/review/1"})
		require.NoError(t, err)
		require.Equal(t, 4, result.Rating)
		require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("4xx is terminal", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Extract(ctx, ExtractRequest{URL: "not a url"})
		require.ErrorIs(t, err, ErrExtraction)
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
